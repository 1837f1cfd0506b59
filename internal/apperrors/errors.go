package apperrors

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput                = errors.New("invalid input")
	ErrInsufficientCalibrationData = errors.New("insufficient calibration data")
	ErrPersistence                 = errors.New("persistence error")
	ErrNotFound                    = errors.New("not found")
	ErrUnknownScenario             = errors.New("unknown scenario")
	ErrUnknownProfile              = errors.New("unknown engine profile")
)

// Error attaches the failing stage and the equipment/scenario being processed
// to one of the sentinel kinds above.
type Error struct {
	Kind        error
	Op          string
	EquipmentID string
	Scenario    string
	Err         error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.EquipmentID != "" {
		b.WriteString(" [equipment=" + e.EquipmentID + "]")
	}
	if e.Scenario != "" {
		b.WriteString(" [scenario=" + e.Scenario + "]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the error kind; the wrapped cause is reached through Unwrap.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind for operation op.
func New(kind error, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// WithEquipment sets the equipment/scenario context and returns e.
func (e *Error) WithEquipment(equipmentID, scenario string) *Error {
	e.EquipmentID = equipmentID
	e.Scenario = scenario
	return e
}

// Persistence wraps a store failure. A nil cause returns nil.
func Persistence(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrPersistence) {
		return cause
	}
	return New(ErrPersistence, op, cause)
}

// kinds is the match order used by Annotate; more specific kinds first.
var kinds = []error{
	ErrInsufficientCalibrationData,
	ErrUnknownScenario,
	ErrUnknownProfile,
	ErrNotFound,
	ErrPersistence,
	ErrInvalidInput,
}

// Annotate attaches equipment/scenario context to err, keeping its kind.
// An *Error already in the chain is updated in place; other errors are
// wrapped under the first sentinel they match, or ErrInvalidInput.
func Annotate(err error, op, equipmentID, scenario string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.EquipmentID == "" {
			e.EquipmentID = equipmentID
		}
		if e.Scenario == "" {
			e.Scenario = scenario
		}
		return err
	}
	kind := ErrInvalidInput
	for _, k := range kinds {
		if errors.Is(err, k) {
			kind = k
			break
		}
	}
	return New(kind, op, err).WithEquipment(equipmentID, scenario)
}
