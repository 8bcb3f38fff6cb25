package dialog

// Progress is a progress dialog: a bar, a percentage counter and a single
// Abort button.
type Progress struct {
	*Dialog
}

// SetProgress updates the bar and counter. Reaching exactly 100 detaches
// the dialog and resolves its handle. Values are not clamped. Calls after
// the dialog closed are ignored.
func (p *Progress) SetProgress(percent int) {
	if p.state != StateOpen {
		return
	}
	p.percent = percent
	if percent == 100 {
		p.finish(StateAccepted)
		p.handle.resolve(Result{})
	}
}
