package votecount

import "fmt"

// MethodNames lists the names accepted by NewMethod
var MethodNames = []string{
	InstantRunoffName,
	MeekSTVName,
	TidemansAlternativeName,
	TidemansAlternativeSmithName,
	TidemansAlternativeSchwartzName,
}

// NewMethod returns a new method from its name
func NewMethod(name string) (Method, error) {
	switch name {
	case InstantRunoffName:
		return NewInstantRunoff(), nil
	case MeekSTVName:
		return NewMeekSTV(), nil
	case TidemansAlternativeName:
		return NewTidemansAlternative(), nil
	case TidemansAlternativeSmithName:
		return NewTidemansAlternativeSmith(), nil
	case TidemansAlternativeSchwartzName:
		return NewTidemansAlternativeSchwartz(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}
