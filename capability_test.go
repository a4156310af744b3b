package isomorphic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type celsius struct {
	deg float64
}

func TestIso_BothDirections(t *testing.T) {
	var iso Iso[celsius, float64]

	c := celsius{deg: 21.5}
	assert.Equal(t, 21.5, *iso.Ref(&c))

	*iso.Mut(&c) = 30
	assert.Equal(t, 30.0, c.deg)

	f := 12.0
	assert.Equal(t, celsius{deg: 12}, *iso.Back(&f))

	iso.BackMut(&f).deg = -1
	assert.Equal(t, -1.0, f)
}

func TestIso_CloneRoundTrip(t *testing.T) {
	var iso Iso[celsius, float64]

	c := celsius{deg: 37}
	assert.Equal(t, c, iso.BackClone(iso.Clone(c)))
	assert.Equal(t, c, iso.Inverse().Clone(iso.Clone(c)))
}

func TestIso_CapabilityValues(t *testing.T) {
	var iso Iso[celsius, float64]

	var (
		ref  RefFunc[celsius, float64]  = iso.RefFunc()
		mut  MutFunc[celsius, float64]  = iso.MutFunc()
		from FromFunc[celsius, float64] = iso.FromFunc()
	)

	c := celsius{deg: 5}
	*mut(&c) *= 2

	assert.Equal(t, 10.0, *ref(&c))
	assert.Equal(t, 10.0, from(c))
}
