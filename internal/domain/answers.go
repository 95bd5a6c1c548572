package domain

import (
	"github.com/shopspring/decimal"
)

// HousingType is the kind of dwelling being assessed
type HousingType string

const (
	HousingHouse     HousingType = "house"
	HousingApartment HousingType = "apartment"
)

// ExposureZone is the clay shrink-swell exposure level of the parcel
type ExposureZone string

const (
	ExposureHigh   ExposureZone = "high"
	ExposureMedium ExposureZone = "medium"
	ExposureLow    ExposureZone = "low"
)

// DamageState describes the visible condition of the building
type DamageState string

const (
	DamageSound               DamageState = "sound"
	DamageVerySlightlyDamaged DamageState = "very-slightly-damaged"
	DamageDamaged             DamageState = "damaged"
)

// Housing groups the answers describing the dwelling and its location
type Housing struct {
	Type             *HousingType  `yaml:"type,omitempty" json:"type,omitempty"`
	DepartmentCode   *string       `yaml:"department_code,omitempty" json:"department_code,omitempty"`
	RegionCode       *string       `yaml:"region_code,omitempty" json:"region_code,omitempty"`
	ExposureZone     *ExposureZone `yaml:"exposure_zone,omitempty" json:"exposure_zone,omitempty"`
	ConstructionYear *int          `yaml:"construction_year,omitempty" json:"construction_year,omitempty"`
	FloorCount       *int          `yaml:"floor_count,omitempty" json:"floor_count,omitempty"`
	Adjacent         *bool         `yaml:"adjacent,omitempty" json:"adjacent,omitempty"` // semi-detached or terraced
	OwnerOccupant    *bool         `yaml:"owner_occupant,omitempty" json:"owner_occupant,omitempty"`
}

// DamageHistory groups the answers about damage, insurance and past claims
type DamageHistory struct {
	State                   *DamageState     `yaml:"state,omitempty" json:"state,omitempty"`
	Insured                 *bool            `yaml:"insured,omitempty" json:"insured,omitempty"`
	PriorCompensation       *bool            `yaml:"prior_compensation,omitempty" json:"prior_compensation,omitempty"`
	BeforeEligibilityCutoff *bool            `yaml:"before_eligibility_cutoff,omitempty" json:"before_eligibility_cutoff,omitempty"`
	BeforeCapCutoff         *bool            `yaml:"before_cap_cutoff,omitempty" json:"before_cap_cutoff,omitempty"`
	CompensationAmount      *decimal.Decimal `yaml:"compensation_amount,omitempty" json:"compensation_amount,omitempty"`
}

// Household groups the answers used for income means-testing
type Household struct {
	Size   *int             `yaml:"size,omitempty" json:"size,omitempty"`
	Income *decimal.Decimal `yaml:"income,omitempty" json:"income,omitempty"`
}

// AnswerSet is the cumulative, partially populated questionnaire.
// Applicant carries contact details that never take part in eligibility.
type AnswerSet struct {
	Housing       Housing        `yaml:"housing" json:"housing"`
	DamageHistory DamageHistory  `yaml:"damage_history" json:"damage_history"`
	Household     Household      `yaml:"household" json:"household"`
	Applicant     map[string]any `yaml:"applicant,omitempty" json:"applicant,omitempty"`
}

// Field identifies one answer inside the AnswerSet
type Field string

const (
	FieldHousingType             Field = "housing.type"
	FieldDepartmentCode          Field = "housing.department_code"
	FieldRegionCode              Field = "housing.region_code"
	FieldExposureZone            Field = "housing.exposure_zone"
	FieldConstructionYear        Field = "housing.construction_year"
	FieldFloorCount              Field = "housing.floor_count"
	FieldAdjacent                Field = "housing.adjacent"
	FieldOwnerOccupant           Field = "housing.owner_occupant"
	FieldDamageState             Field = "damage_history.state"
	FieldInsured                 Field = "damage_history.insured"
	FieldPriorCompensation       Field = "damage_history.prior_compensation"
	FieldBeforeEligibilityCutoff Field = "damage_history.before_eligibility_cutoff"
	FieldBeforeCapCutoff         Field = "damage_history.before_cap_cutoff"
	FieldCompensationAmount      Field = "damage_history.compensation_amount"
	FieldHouseholdSize           Field = "household.size"
	FieldHouseholdIncome         Field = "household.income"
)

// Merge returns a copy of a with every populated field of update applied.
// Each sub-group is merged shallowly; newer values win and absent values
// never erase existing ones.
func (a AnswerSet) Merge(update AnswerSet) AnswerSet {
	merged := a.Clone()

	h, u := &merged.Housing, update.Housing
	if u.Type != nil {
		h.Type = u.Type
	}
	if u.DepartmentCode != nil {
		h.DepartmentCode = u.DepartmentCode
	}
	if u.RegionCode != nil {
		h.RegionCode = u.RegionCode
	}
	if u.ExposureZone != nil {
		h.ExposureZone = u.ExposureZone
	}
	if u.ConstructionYear != nil {
		h.ConstructionYear = u.ConstructionYear
	}
	if u.FloorCount != nil {
		h.FloorCount = u.FloorCount
	}
	if u.Adjacent != nil {
		h.Adjacent = u.Adjacent
	}
	if u.OwnerOccupant != nil {
		h.OwnerOccupant = u.OwnerOccupant
	}

	d, du := &merged.DamageHistory, update.DamageHistory
	if du.State != nil {
		d.State = du.State
	}
	if du.Insured != nil {
		d.Insured = du.Insured
	}
	if du.PriorCompensation != nil {
		d.PriorCompensation = du.PriorCompensation
	}
	if du.BeforeEligibilityCutoff != nil {
		d.BeforeEligibilityCutoff = du.BeforeEligibilityCutoff
	}
	if du.BeforeCapCutoff != nil {
		d.BeforeCapCutoff = du.BeforeCapCutoff
	}
	if du.CompensationAmount != nil {
		d.CompensationAmount = du.CompensationAmount
	}

	if update.Household.Size != nil {
		merged.Household.Size = update.Household.Size
	}
	if update.Household.Income != nil {
		merged.Household.Income = update.Household.Income
	}

	if len(update.Applicant) > 0 {
		if merged.Applicant == nil {
			merged.Applicant = make(map[string]any, len(update.Applicant))
		}
		for k, v := range update.Applicant {
			merged.Applicant[k] = v
		}
	}

	return merged
}

// Clone returns a copy that shares no mutable state with a.
// Pointer fields are shared because they are only ever replaced, never written through.
func (a AnswerSet) Clone() AnswerSet {
	c := a
	if a.Applicant != nil {
		c.Applicant = make(map[string]any, len(a.Applicant))
		for k, v := range a.Applicant {
			c.Applicant[k] = v
		}
	}
	return c
}

// Without returns a copy of a with the given fields removed
func (a AnswerSet) Without(fields ...Field) AnswerSet {
	c := a.Clone()
	for _, f := range fields {
		switch f {
		case FieldHousingType:
			c.Housing.Type = nil
		case FieldDepartmentCode:
			c.Housing.DepartmentCode = nil
		case FieldRegionCode:
			c.Housing.RegionCode = nil
		case FieldExposureZone:
			c.Housing.ExposureZone = nil
		case FieldConstructionYear:
			c.Housing.ConstructionYear = nil
		case FieldFloorCount:
			c.Housing.FloorCount = nil
		case FieldAdjacent:
			c.Housing.Adjacent = nil
		case FieldOwnerOccupant:
			c.Housing.OwnerOccupant = nil
		case FieldDamageState:
			c.DamageHistory.State = nil
		case FieldInsured:
			c.DamageHistory.Insured = nil
		case FieldPriorCompensation:
			c.DamageHistory.PriorCompensation = nil
		case FieldBeforeEligibilityCutoff:
			c.DamageHistory.BeforeEligibilityCutoff = nil
		case FieldBeforeCapCutoff:
			c.DamageHistory.BeforeCapCutoff = nil
		case FieldCompensationAmount:
			c.DamageHistory.CompensationAmount = nil
		case FieldHouseholdSize:
			c.Household.Size = nil
		case FieldHouseholdIncome:
			c.Household.Income = nil
		}
	}
	return c
}

// Has reports whether the given field is populated
func (a AnswerSet) Has(f Field) bool {
	switch f {
	case FieldHousingType:
		return a.Housing.Type != nil
	case FieldDepartmentCode:
		return a.Housing.DepartmentCode != nil
	case FieldRegionCode:
		return a.Housing.RegionCode != nil
	case FieldExposureZone:
		return a.Housing.ExposureZone != nil
	case FieldConstructionYear:
		return a.Housing.ConstructionYear != nil
	case FieldFloorCount:
		return a.Housing.FloorCount != nil
	case FieldAdjacent:
		return a.Housing.Adjacent != nil
	case FieldOwnerOccupant:
		return a.Housing.OwnerOccupant != nil
	case FieldDamageState:
		return a.DamageHistory.State != nil
	case FieldInsured:
		return a.DamageHistory.Insured != nil
	case FieldPriorCompensation:
		return a.DamageHistory.PriorCompensation != nil
	case FieldBeforeEligibilityCutoff:
		return a.DamageHistory.BeforeEligibilityCutoff != nil
	case FieldBeforeCapCutoff:
		return a.DamageHistory.BeforeCapCutoff != nil
	case FieldCompensationAmount:
		return a.DamageHistory.CompensationAmount != nil
	case FieldHouseholdSize:
		return a.Household.Size != nil
	case FieldHouseholdIncome:
		return a.Household.Income != nil
	}
	return false
}

// Ptr returns a pointer to v. Handy when building answer sets in code.
func Ptr[T any](v T) *T {
	return &v
}

// Money is a shorthand for a pointer to a whole-euro decimal amount
func Money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
