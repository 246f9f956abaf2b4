package model

// DPD is the dead peer detection setting of a connection. Interval and
// Timeout are in seconds.
type DPD struct {
	Action   string `json:"action" yaml:"action"`
	Interval int    `json:"interval" yaml:"interval"`
	Timeout  int    `json:"timeout" yaml:"timeout"`
}

// DefaultDPD is used when neither the request nor a previous connection
// supplies a value.
var DefaultDPD = DPD{
	Action:   DPDActionHold,
	Interval: 30,
	Timeout:  120,
}

// DPDUpdate is the nested, possibly partial DPD block of a create or
// update request. Nil fields are absent.
type DPDUpdate struct {
	Action   *string `json:"action,omitempty" yaml:"action"`
	Interval *int    `json:"interval,omitempty" yaml:"interval"`
	Timeout  *int    `json:"timeout,omitempty" yaml:"timeout"`
}

// MergeDPD layers a partial update over prev, falling back to defaults
// when there is no previous connection. Fields present in the update win.
func MergeDPD(update *DPDUpdate, prev *DPD, defaults DPD) DPD {
	out := defaults
	if prev != nil {
		out = *prev
	}
	if update == nil {
		return out
	}
	if update.Action != nil {
		out.Action = *update.Action
	}
	if update.Interval != nil {
		out.Interval = *update.Interval
	}
	if update.Timeout != nil {
		out.Timeout = *update.Timeout
	}
	return out
}
