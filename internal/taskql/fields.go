package taskql

type Field string

const (
	FieldID            = Field("id")
	FieldTitle         = Field("title")
	FieldDescription   = Field("description")
	FieldCompleted     = Field("completed")
	FieldCreatedAfter  = Field("created_after")
	FieldCreatedBefore = Field("created_before")
)

var allFields = []Field{
	FieldID,
	FieldTitle,
	FieldDescription,
	FieldCompleted,
	FieldCreatedAfter,
	FieldCreatedBefore,
}

func (f Field) IsValid() bool {
	for _, e := range allFields {
		if e == f {
			return true
		}
	}

	return false
}
