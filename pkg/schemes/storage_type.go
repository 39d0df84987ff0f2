package schemes

//go:generate go run github.com/dmarkham/enumer -type StorageType -trimprefix StorageType -transform lower -json -sql -output storage_type.gen.go

// StorageType identifies the kind of storage provider backing a backend.
// The lowercase string form is what is stored in the database, so the set
// of values is part of the stored-data compatibility surface.
type StorageType int

const (
	StorageTypeLocal StorageType = iota
	StorageTypeMongodb
	StorageTypeDropbox
)
