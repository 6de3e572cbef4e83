package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint(t *testing.T) {
	data := NewRefData()
	good := &UnitGroup{Head: Head{ID: "93a60a57-a4c8-11da-a746-0800200c9a66", Name: "Units of mass"}}
	good.Units = []*Unit{{Head: Head{ID: "20aadc24-a391-41cf-b340-3e4529f44bde", Name: "kg"}, IsRefUnit: true}}
	bad := &UnitGroup{Head: Head{ID: "g-vol", Name: "Units of volume"}}
	data.UnitGroups.Put(good.ID, good)
	data.UnitGroups.Put(bad.ID, bad)

	flow := &Flow{Head: Head{ID: "08a91e70-3ddc-11dd-96f8-0050c2490048", Name: "CO2"}}
	data.Flows.Put(flow.ID, flow)

	issues := Lint(data)
	require.Len(t, issues, 3)
	assert.Equal(t, Issue{Kind: TypeUnitGroup, ID: "g-vol", Message: "identifier is not a UUID"}, issues[0])
	assert.Equal(t, "no reference unit", issues[1].Message)
	assert.Equal(t, "Flow 08a91e70-3ddc-11dd-96f8-0050c2490048: no reference flow property", issues[2].String())
}

func TestLint_Fixture(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetAll)

	issues := Lint(data)
	assert.NotEmpty(t, issues, "fixture ids are not UUIDs")
	for _, issue := range issues {
		assert.NotEmpty(t, issue.Message)
	}
}
