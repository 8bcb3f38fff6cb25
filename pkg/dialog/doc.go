// Package dialog implements alert, confirm, prompt and progress dialogs as
// host-independent state machines.
//
// A Manager synthesizes sanitized markup for each dialog, assigns it a
// stacking index, mounts it into a Host and returns a *Dialog whose Handle
// settles exactly once with the user's decision. Hosts (a terminal UI, an
// HTTP preview server, a test double) feed input back through HandleKey,
// Click and ContextMenu.
//
// # Quick Start
//
//	m := dialog.NewManager(host)
//	d := m.Prompt("Rename", "New name:", "draft.txt", dialog.Options{})
//
//	// In the host's event loop:
//	d.HandleKey(dialog.KeyEvent{Key: dialog.KeyEnter})
//
//	// Elsewhere:
//	res, err := d.Handle().Wait(ctx)
//	if errors.Is(err, dialog.ErrCancelled) {
//	    return nil
//	}
//	fmt.Println(res.Value)
//
// # Keyboard
//
//   - Enter activates the focused control
//   - Esc cancels
//   - Tab and Shift+Tab both advance through the focus ring
//   - Arrow keys toggle between the OK and Cancel buttons
//
// Dialogs created with Options.Cancelable set to false close on cancel
// without settling their handle. Use Dialog.Closed to observe that case.
package dialog
