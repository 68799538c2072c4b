package models

const (
	TermFirst  = "first_term"
	TermSecond = "second_term"
	TermThird  = "third_term"
)

var Terms = []string{TermFirst, TermSecond, TermThird}

const (
	TriggerManual    = "manual"
	TriggerTimeUp    = "time_up"
	TriggerTabSwitch = "tab_switch"
	TriggerAuto      = "auto"
)

// TriggerTypes is the allow-list of reasons an attempt can be submitted for.
var TriggerTypes = []string{TriggerManual, TriggerTimeUp, TriggerTabSwitch, TriggerAuto}

const (
	CbtResultInProgress = "in_progress"
	CbtResultSubmitted  = "submitted"
)

func IsValidTerm(term string) bool {
	for _, t := range Terms {
		if t == term {
			return true
		}
	}
	return false
}

func IsValidTriggerType(trigger string) bool {
	for _, t := range TriggerTypes {
		if t == trigger {
			return true
		}
	}
	return false
}
