package inventory

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Stage identifies which physical handling stage a balance belongs to.
// Stock received on the dock, stock put away in storage, and stock staged
// for picking are tracked as separate balances of the same product and
// location.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	StageUnknown Stage = iota

	// StageReceiving holds stock that has arrived but is not yet put away.
	StageReceiving

	// StageStorage holds put-away stock. This is the default stage for
	// reservations and shipping.
	StageStorage

	// StagePicking holds stock staged for active pick waves.
	StagePicking
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:   "Unknown",
		StageReceiving: "Receiving",
		StageStorage:   "Storage",
		StagePicking:   "Picking",
	}
}

func getValidStageStrings() map[Stage]string {
	//nolint:exhaustive // StageUnknown is intentionally excluded as it's invalid
	return map[Stage]string{
		StageReceiving: "Receiving",
		StageStorage:   "Storage",
		StagePicking:   "Picking",
	}
}

// Validate checks if the Stage value is valid.
func (s Stage) Validate() error {
	if _, ok := getValidStageStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid",
			fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// String returns the human-readable name of the stage.
// This method implements the fmt.Stringer interface.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StageFromString resolves a stage by its human-readable name.
func StageFromString(name string) (Stage, error) {
	for stage, str := range getValidStageStrings() {
		if str == name {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage is invalid",
		fmt.Errorf("%q is not a valid stage name", name))
}
