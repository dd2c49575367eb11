package auth

import (
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// EnsureOwner rejects callers that are not the recorded owner of a resource.
func EnsureOwner(identity domain.Identity, ownerID, resource string) error {
	if !identity.Owns(ownerID) {
		return apperrors.NewForbidden("only the owner may modify this " + resource)
	}
	return nil
}
