package model

// ModelType is the olca-schema "@type" of an entity.
type ModelType string

const (
	TypeUnit           ModelType = "Unit"
	TypeUnitGroup      ModelType = "UnitGroup"
	TypeFlowProperty   ModelType = "FlowProperty"
	TypeCurrency       ModelType = "Currency"
	TypeFlow           ModelType = "Flow"
	TypeLocation       ModelType = "Location"
	TypeImpactCategory ModelType = "ImpactCategory"
	TypeImpactMethod   ModelType = "ImpactMethod"
	TypeNwSet          ModelType = "NwSet"

	TypeFlowPropertyFactor ModelType = "FlowPropertyFactor"
	TypeImpactFactor       ModelType = "ImpactFactor"
	TypeNwFactor           ModelType = "NwFactor"
)

// FlowType classifies flows.
type FlowType string

const (
	ElementaryFlow FlowType = "ELEMENTARY_FLOW"
	ProductFlow    FlowType = "PRODUCT_FLOW"
	WasteFlow      FlowType = "WASTE_FLOW"
)

// FlowPropertyType classifies flow properties.
type FlowPropertyType string

const (
	PhysicalQuantity FlowPropertyType = "PHYSICAL_QUANTITY"
	EconomicQuantity FlowPropertyType = "ECONOMIC_QUANTITY"
)

// Ref is a weak reference to another entity. It never owns the entity it
// points to.
type Ref struct {
	Type ModelType `json:"@type"`
	ID   string    `json:"@id"`
	Name string    `json:"name,omitempty"`
}

// Head holds the fields every entity row starts with.
type Head struct {
	Type        ModelType `json:"@type"`
	ID          string    `json:"@id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// Ref returns a weak reference to the entity.
func (h *Head) Ref() Ref {
	return Ref{Type: h.Type, ID: h.ID, Name: h.Name}
}

// Header returns the common entity fields.
func (h *Head) Header() *Head {
	return h
}

// Entity is implemented by every type that is serialized into a library.
type Entity interface {
	Header() *Head
	Ref() Ref
}

type Unit struct {
	Head
	ConversionFactor float64  `json:"conversionFactor"`
	IsRefUnit        bool     `json:"isRefUnit,omitempty"`
	Synonyms         []string `json:"synonyms,omitempty"`

	// Group is the identifier the units table lists for the owning group.
	Group string `json:"-"`
}

type UnitGroup struct {
	Head
	DefaultFlowProperty *Ref    `json:"defaultFlowProperty,omitempty"`
	Units               []*Unit `json:"units"`
}

// RefUnit returns the unit flagged as reference unit, or nil.
func (g *UnitGroup) RefUnit() *Unit {
	for _, u := range g.Units {
		if u.IsRefUnit {
			return u
		}
	}
	return nil
}

type FlowProperty struct {
	Head
	FlowPropertyType FlowPropertyType `json:"flowPropertyType"`
	UnitGroup        *Ref             `json:"unitGroup,omitempty"`
}

type Currency struct {
	Head
	Code             string  `json:"code,omitempty"`
	ConversionFactor float64 `json:"conversionFactor"`
	RefCurrency      *Ref    `json:"refCurrency,omitempty"`
}

type Flow struct {
	Head
	FlowType       FlowType             `json:"flowType,omitempty"`
	CAS            string               `json:"cas,omitempty"`
	Formula        string               `json:"formula,omitempty"`
	FlowProperties []FlowPropertyFactor `json:"flowProperties,omitempty"`
	Location       *Ref                 `json:"location,omitempty"`
}

// FlowPropertyFactor converts between the reference property of a flow and
// another property.
type FlowPropertyFactor struct {
	Type              ModelType `json:"@type"`
	ConversionFactor  float64   `json:"conversionFactor"`
	FlowProperty      Ref       `json:"flowProperty"`
	IsRefFlowProperty bool      `json:"isRefFlowProperty,omitempty"`
}

// AddPropertyFactor appends a factor for prop unless the flow already has one
// for the same property. The new factor becomes the reference factor when the
// flow has no reference factor yet and factor is exactly 1.
// Returns false if the flow was left unchanged.
func (f *Flow) AddPropertyFactor(prop Ref, factor float64) bool {
	hasRef := false
	for _, existing := range f.FlowProperties {
		if existing.FlowProperty.ID == prop.ID {
			return false
		}
		if existing.IsRefFlowProperty {
			hasRef = true
		}
	}
	f.FlowProperties = append(f.FlowProperties, FlowPropertyFactor{
		Type:              TypeFlowPropertyFactor,
		ConversionFactor:  factor,
		FlowProperty:      prop,
		IsRefFlowProperty: !hasRef && factor == 1.0,
	})
	return true
}

// RefFactor returns the reference flow property factor, or nil.
func (f *Flow) RefFactor() *FlowPropertyFactor {
	for i := range f.FlowProperties {
		if f.FlowProperties[i].IsRefFlowProperty {
			return &f.FlowProperties[i]
		}
	}
	return nil
}

type Location struct {
	Head
	Code      string  `json:"code,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ImpactCategory struct {
	Head
	RefUnit       string         `json:"refUnit,omitempty"`
	ImpactFactors []ImpactFactor `json:"impactFactors,omitempty"`
}

// ImpactFactor is a characterization factor. Value and Formula are mutually
// exclusive: Value is set when the source cell is numeric.
type ImpactFactor struct {
	Type         ModelType `json:"@type"`
	Flow         Ref       `json:"flow"`
	FlowProperty Ref       `json:"flowProperty"`
	Unit         Ref       `json:"unit"`
	Location     *Ref      `json:"location,omitempty"`
	Value        *float64  `json:"value,omitempty"`
	Formula      string    `json:"formula,omitempty"`
}

type ImpactMethod struct {
	Head
	ImpactCategories []Ref    `json:"impactCategories,omitempty"`
	NwSets           []*NwSet `json:"nwSets,omitempty"`
}

// NwSet returns the normalisation and weighting set with the given id, or nil.
func (m *ImpactMethod) NwSet(id string) *NwSet {
	for _, s := range m.NwSets {
		if s.ID == id {
			return s
		}
	}
	return nil
}

type NwSet struct {
	Type              ModelType  `json:"@type"`
	ID                string     `json:"@id"`
	Name              string     `json:"name"`
	WeightedScoreUnit string     `json:"weightedScoreUnit,omitempty"`
	Factors           []NwFactor `json:"factors,omitempty"`
}

type NwFactor struct {
	Type                ModelType `json:"@type"`
	ImpactCategory      Ref       `json:"impactCategory"`
	NormalisationFactor *float64  `json:"normalisationFactor,omitempty"`
	WeightingFactor     *float64  `json:"weightingFactor,omitempty"`
}
