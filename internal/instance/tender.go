package instance

import (
	"strings"

	"github.com/dukerupert/kinobi/internal/model"
)

// AddTender appends a new person to the catalog.
func AddTender(inst *model.Instance, name string) (model.Tender, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tender{}, invalid("name", "invalid name for tender")
	}
	t := model.Tender{ID: NewID(prefixTender), Name: name}
	inst.Tenders = append(inst.Tenders, t)
	return t, nil
}

// RenameTender changes a person's display name. History recorded under the
// old name stays attributed to the old name.
func RenameTender(inst *model.Instance, id, name string) (model.Tender, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tender{}, invalid("name", "invalid new name for tender")
	}
	for i := range inst.Tenders {
		if inst.Tenders[i].ID == id {
			inst.Tenders[i].Name = name
			return inst.Tenders[i], nil
		}
	}
	return model.Tender{}, notFound("tender")
}

func DeleteTender(inst *model.Instance, id string) error {
	for i, t := range inst.Tenders {
		if t.ID == id {
			inst.Tenders = append(inst.Tenders[:i:i], inst.Tenders[i+1:]...)
			return nil
		}
	}
	return notFound("tender")
}
