package models

import (
	"errors"
	"fmt"
	"strings"
)

// Localization is the body area a photo was taken of.
type Localization string

const (
	LocalizationFace  Localization = "face"
	LocalizationEar   Localization = "ear"
	LocalizationNeck  Localization = "neck"
	LocalizationArm   Localization = "arm"
	LocalizationLeg   Localization = "leg"
	LocalizationTorso Localization = "torso"
	LocalizationBack  Localization = "back"
	LocalizationHand  Localization = "hand"
	LocalizationFoot  Localization = "foot"
	LocalizationOther Localization = "other"
)

var ErrUnknownLocalization = errors.New("unknown localization")

// Localizations lists the accepted areas in display order.
func Localizations() []Localization {
	return []Localization{
		LocalizationFace, LocalizationEar, LocalizationNeck, LocalizationArm, LocalizationLeg,
		LocalizationTorso, LocalizationBack, LocalizationHand, LocalizationFoot, LocalizationOther,
	}
}

func (l Localization) Valid() bool {
	for _, v := range Localizations() {
		if v == l {
			return true
		}
	}
	return false
}

// ParseLocalization accepts any letter case and surrounding spaces.
func ParseLocalization(s string) (Localization, error) {
	l := Localization(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocalization, s)
	}
	return l, nil
}
