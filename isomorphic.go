package isomorphic

import "unsafe"

// RefOf reinterprets the value behind from as a Dst without copying it.
//
// The returned pointer aliases *from and is meant for reading only. It must
// not outlive the source value, and it must not be used after the source
// memory is reused for something else.
//
// Safety: Src and Dst must be isomorphic. No size, alignment or validity check
// is performed.
func RefOf[Dst, Src any](from *Src) *Dst {
	return (*Dst)(unsafe.Pointer(from))
}

// MutRefOf reinterprets the value behind from as a Dst for writing, without
// copying it.
//
// Writes through the returned pointer land in the source memory, so they must
// leave it valid for Src as well as for Dst. The caller must not hold any other
// pointer to the same memory, through either type, while the result is in use.
//
// Safety: Src and Dst must be isomorphic. No size, alignment or validity check
// is performed.
func MutRefOf[Dst, Src any](from *Src) *Dst {
	return (*Dst)(unsafe.Pointer(from))
}

// CloneOf copies unsafe.Sizeof(Dst) bytes starting at from and returns them as
// an independent Dst. The source is neither consumed nor modified.
//
// No bounds check is performed: if Dst is larger than Src the copy reads past
// the source value. If Dst refers to a resource that must have a single owner,
// such as a file descriptor, the result is a second handle to that resource
// and nothing tracks it.
//
// Safety: Src and Dst must be isomorphic.
func CloneOf[Dst, Src any](from *Src) Dst {
	return *(*Dst)(unsafe.Pointer(from))
}

// Sizeof returns the size of T in bytes.
func Sizeof[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Alignof returns the alignment of T in bytes.
func Alignof[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}
