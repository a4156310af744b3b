package isomorphic

// RefFunc is the shape of a generated read-only reference conversion.
type RefFunc[Src, Dst any] func(*Src) *Dst

// MutFunc is the shape of a generated mutable reference conversion.
type MutFunc[Src, Dst any] func(*Src) *Dst

// FromFunc is the shape of a generated value conversion.
type FromFunc[Src, Dst any] func(Src) Dst

// Iso bundles both directions of a claimed isomorphism between A and B.
//
// It is a zero-size value; constructing one is the caller's assertion that A
// and B share a layout. Nothing is checked.
//
//	var celsius Iso[Celsius, float64]
//	f := celsius.Ref(&c)
type Iso[A, B any] struct{}

// Ref views *A as *B for reading.
func (Iso[A, B]) Ref(a *A) *B { return RefOf[B](a) }

// Mut views *A as *B for writing.
func (Iso[A, B]) Mut(a *A) *B { return MutRefOf[B](a) }

// Clone converts a to B by copying its bytes.
func (Iso[A, B]) Clone(a A) B { return CloneOf[B](&a) }

// Back views *B as *A for reading.
func (Iso[A, B]) Back(b *B) *A { return RefOf[A](b) }

// BackMut views *B as *A for writing.
func (Iso[A, B]) BackMut(b *B) *A { return MutRefOf[A](b) }

// BackClone converts b to A by copying its bytes.
func (Iso[A, B]) BackClone(b B) A { return CloneOf[A](&b) }

// Inverse returns the same claim with the directions swapped.
func (Iso[A, B]) Inverse() Iso[B, A] { return Iso[B, A]{} }

// RefFunc, MutFunc and FromFunc expose the forward direction as capability
// values.
func (i Iso[A, B]) RefFunc() RefFunc[A, B]   { return i.Ref }
func (i Iso[A, B]) MutFunc() MutFunc[A, B]   { return i.Mut }
func (i Iso[A, B]) FromFunc() FromFunc[A, B] { return i.Clone }
