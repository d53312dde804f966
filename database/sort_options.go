package database

const (
	SortCreatedDesc = "created_desc"
	SortCreatedAsc  = "created_asc"
	SortTitleNat    = "title_nat"
)

const DefaultAlbumSort = SortCreatedDesc

// IsValidAlbumSort checks if a string is a valid album sort order constant
func IsValidAlbumSort(order string) bool {
	switch order {
	case SortCreatedDesc, SortCreatedAsc, SortTitleNat:
		return true
	default:
		return false
	}
}
