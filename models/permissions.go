package models

// Permission codenames are "<app>.<codename>".
const (
	PermCanMarkReturned = "catalog.can_mark_returned"

	actionAdd    = "add"
	actionChange = "change"
	actionDelete = "delete"
)

// Catalog model names used in add/change/delete permissions.
const (
	ModelAuthor       = "author"
	ModelGenre        = "genre"
	ModelLanguage     = "booklanguage"
	ModelBook         = "book"
	ModelBookInstance = "bookinstance"
)

func PermAdd(model string) string    { return "catalog." + actionAdd + "_" + model }
func PermChange(model string) string { return "catalog." + actionChange + "_" + model }
func PermDelete(model string) string { return "catalog." + actionDelete + "_" + model }

// KnownPermissions lists every codename that can be granted.
func KnownPermissions() []string {
	perms := []string{PermCanMarkReturned}
	for _, m := range []string{ModelAuthor, ModelGenre, ModelLanguage, ModelBook, ModelBookInstance} {
		perms = append(perms, PermAdd(m), PermChange(m), PermDelete(m))
	}
	return perms
}
