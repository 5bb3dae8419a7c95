package label

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"tasktrove/internal/model"
)

var ErrNotFound = errors.New("label not found")

// Patch represents a partial label update. nil pointer => "no change".
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type Repo interface {
	Create(name, color string) (model.Label, error)
	Get(id model.LabelID) (model.Label, error)
	FindByName(name string) (model.Label, bool)
	Update(id model.LabelID, p Patch) (model.Label, error)
	Delete(id model.LabelID) error
	List() ([]model.Label, error)
}

func newID() model.LabelID {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return model.LabelID("label_" + hex.EncodeToString(b[:]))
}
