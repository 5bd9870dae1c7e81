package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SubsystemFlag is an airframe zone the local classifier can mark as faulty
type SubsystemFlag string

const (
	LeftWing      SubsystemFlag = "leftWing"
	RightWing     SubsystemFlag = "rightWing"
	BackLeftWing  SubsystemFlag = "backLeftWing"
	BackRightWing SubsystemFlag = "backRightWing"
)

// AllSubsystemFlags returns the four zones in schematic order
func AllSubsystemFlags() []SubsystemFlag {
	return []SubsystemFlag{LeftWing, RightWing, BackLeftWing, BackRightWing}
}

// FlagSet is an unordered set of SubsystemFlag values
type FlagSet map[SubsystemFlag]struct{}

// NewFlagSet builds a set from the given flags, dropping duplicates
func NewFlagSet(flags ...SubsystemFlag) FlagSet {
	s := make(FlagSet, len(flags))
	for _, f := range flags {
		s[f] = struct{}{}
	}
	return s
}

// Add inserts a flag
func (s FlagSet) Add(f SubsystemFlag) {
	s[f] = struct{}{}
}

// Has reports whether the flag is present
func (s FlagSet) Has(f SubsystemFlag) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the flags in lexical order
func (s FlagSet) Sorted() []SubsystemFlag {
	out := make([]SubsystemFlag, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of flags
func (s *FlagSet) UnmarshalJSON(data []byte) error {
	var flags []SubsystemFlag
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	*s = NewFlagSet(flags...)
	return nil
}

// RiskStatus is the ordered severity of a part, Good being the least severe
type RiskStatus int

const (
	Good RiskStatus = iota
	PossibleFault
	LikelyToFail
	CheckMandatory
)

func (s RiskStatus) String() string {
	switch s {
	case Good:
		return "Good"
	case PossibleFault:
		return "Possible Fault"
	case LikelyToFail:
		return "Likely To Fail"
	case CheckMandatory:
		return "Check Mandatory"
	}
	return fmt.Sprintf("RiskStatus(%d)", int(s))
}

// ParseRiskStatus resolves a display label back to a RiskStatus
func ParseRiskStatus(label string) (RiskStatus, error) {
	for _, s := range []RiskStatus{Good, PossibleFault, LikelyToFail, CheckMandatory} {
		if s.String() == label {
			return s, nil
		}
	}
	return Good, fmt.Errorf("unknown risk status: %q", label)
}

func (s RiskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RiskStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseRiskStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML lets fleet seed files use the display labels
func (s RiskStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts the display labels
func (s *RiskStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var label string
	if err := unmarshal(&label); err != nil {
		return err
	}
	parsed, err := ParseRiskStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PartStatus is one row of the parts-risk list
type PartStatus struct {
	Name   string     `json:"name" yaml:"name"`
	Status RiskStatus `json:"status" yaml:"status"`
	Reason string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}
