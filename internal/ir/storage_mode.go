package ir

// StorageMode is the declared mode of a local variable.
type StorageMode uint8

const (
	// StorageMy is the default: `x = ...`.
	StorageMy StorageMode = iota
	// StorageShared: `shared x = ...`.
	StorageShared
	// StorageVar: `var x = ...`.
	StorageVar
	// StorageAtomic: `atomic x = ...`.
	StorageAtomic
)

func (m StorageMode) String() string {
	switch m {
	case StorageMy:
		return "my"
	case StorageShared:
		return "shared"
	case StorageVar:
		return "var"
	case StorageAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}
