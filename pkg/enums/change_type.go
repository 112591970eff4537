package enums

// ChangeType describes what happened to an authoritative entity.
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeDelete ChangeType = "delete"
)

var validChangeTypes = []ChangeType{
	ChangeTypeCreate,
	ChangeTypeUpdate,
	ChangeTypeDelete,
}

func (c ChangeType) IsValid() bool {
	for _, candidate := range validChangeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}
