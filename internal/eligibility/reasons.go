package eligibility

import "github.com/rgehrsitz/fundsim/internal/domain"

var reasonMessages = map[domain.Reason]string{
	domain.ReasonApartment:              "The fund only covers individual houses, not apartments.",
	domain.ReasonDepartmentIneligible:   "The house is not located in one of the departments covered by the fund.",
	domain.ReasonZoneNotHigh:            "The house is not in a zone highly exposed to clay shrink-swell.",
	domain.ReasonBuildingTooRecent:      "The house was built too recently; it must be at least 15 years old.",
	domain.ReasonTooManyFloors:          "The house has more floors than the fund allows.",
	domain.ReasonTooDamaged:             "The house is already too damaged for preventive works.",
	domain.ReasonAdjacentBuilding:       "Semi-detached and terraced houses are not covered.",
	domain.ReasonCompensationIneligible: "A previous natural-disaster compensation excludes this house from the fund.",
	domain.ReasonNotInsured:             "The house must be covered by a home insurance policy.",
	domain.ReasonNotOwnerOccupant:       "The applicant must own the house and live in it.",
	domain.ReasonIncomeTooHigh:          "The household income is above the fund's ceilings.",
}

// Message returns the human-readable explanation of a reason code
func Message(r domain.Reason) string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return "The application does not meet the fund's criteria."
}
