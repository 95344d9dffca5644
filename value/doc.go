// Package value is the safe bridge between the engine's C-style tagged
// wire values and Go.
//
// Construction is one-way: each From* constructor yields a fresh,
// independently owned Value, and container constructors copy their
// inputs rather than aliasing them. Reads are one-way too: AsList,
// AsDict, and AsStructure hand back deep copies, never views into the
// container's storage. Copy-both-ways keeps every Value an independent
// owner, so there is exactly one Close per allocation and no way to
// observe another owner's mutation or release.
package value
