package treeview

// Command is what an input handler asks the Application to do once the event
// has been handled. A nil Command means nothing to do.
type Command any

// BatchCommand runs its commands in order.
type BatchCommand []Command

// Batch combines cmds into one command. Nil commands are dropped and nested
// batches are flattened.
func Batch(cmds ...Command) Command {
	var out BatchCommand
	var add func([]Command)
	add = func(cmds []Command) {
		for _, cmd := range cmds {
			switch c := cmd.(type) {
			case nil:
			case BatchCommand:
				add(c)
			default:
				out = append(out, c)
			}
		}
	}
	add(cmds)

	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

// RedrawCommand draws the screen after the event.
type RedrawCommand struct{}

// QuitCommand stops the event loop.
type QuitCommand struct{}

// FocusCommand moves the keyboard focus to Target.
type FocusCommand struct {
	Target Primitive
}
