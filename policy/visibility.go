package policy

import (
	"net/http"

	"github.com/ourmemories/memoriesbackend/models"
)

// Denial explains why an access check failed. A nil *Denial means the check
// passed. Status is the HTTP class the handler should answer with.
type Denial struct {
	Status int
	Code   string
	Reason string
}

func (d *Denial) Error() string { return d.Reason }

func notFound(what string) *Denial {
	return &Denial{Status: http.StatusNotFound, Code: "not_found", Reason: what + " not found"}
}

func forbidden(reason string) *Denial {
	return &Denial{Status: http.StatusForbidden, Code: "forbidden", Reason: reason}
}

var denyUnauthenticated = &Denial{
	Status: http.StatusUnauthorized,
	Code:   "unauthorized",
	Reason: "authentication required",
}

// CanReadAlbum checks, in order: existence, visibility, then the optional
// album access password. Elevated callers skip the visibility check but not
// the password check.
func (p *Policy) CanReadAlbum(album *models.Album, caller *Identity, suppliedPassword string) *Denial {
	if album == nil {
		return notFound("album")
	}
	if !album.IsPublic && !p.HasElevatedAccess(caller) {
		return forbidden("you do not have access to this album")
	}
	if album.HasPassword() && *album.Password != suppliedPassword {
		return forbidden("incorrect album password")
	}
	return nil
}

// CanReadImage checks the image's own private flag and then its parent
// album's visibility. Any one denial hides the image.
func (p *Policy) CanReadImage(image *models.Image, album *models.Album, caller *Identity) *Denial {
	if image == nil {
		return notFound("image")
	}
	if p.HasElevatedAccess(caller) {
		return nil
	}
	if image.IsPrivate {
		return forbidden("you do not have access to this image")
	}
	if album != nil && !album.IsPublic {
		return forbidden("you do not have access to the album containing this image")
	}
	return nil
}

// CanReadAnniversary checks existence and the private flag.
func (p *Policy) CanReadAnniversary(ann *models.Anniversary, caller *Identity) *Denial {
	if ann == nil {
		return notFound("anniversary")
	}
	if ann.IsPrivate && !p.HasElevatedAccess(caller) {
		return forbidden("you do not have access to this anniversary")
	}
	return nil
}

// CanWrite gates every create/update/delete/move/cover change. Anonymous
// callers are rejected outright before any role evaluation.
func (p *Policy) CanWrite(caller *Identity) *Denial {
	if caller == nil {
		return denyUnauthenticated
	}
	if !p.HasElevatedAccess(caller) {
		return forbidden("you do not have permission to modify content")
	}
	return nil
}

// CanWriteAnniversary layers a creator-equality check on top of CanWrite:
// even an elevated caller may only modify anniversaries they created. This
// is intentionally stricter than albums and images.
func (p *Policy) CanWriteAnniversary(ann *models.Anniversary, caller *Identity) *Denial {
	if ann == nil {
		return notFound("anniversary")
	}
	if d := p.CanWrite(caller); d != nil {
		return d
	}
	if ann.CreatedByID != caller.UserID {
		return forbidden("only the creator may modify this anniversary")
	}
	return nil
}
