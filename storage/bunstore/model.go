package bunstore

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-localization-provider/resources"
)

// TableName is the table resources are stored in.
const TableName = "localization_resources"

// keyColumn identifies records in the resources table.
const keyColumn = "resource_key"

type resourceRecord struct {
	bun.BaseModel `bun:"table:localization_resources,alias:lr"`

	ID               uuid.UUID         `bun:"id,pk,type:varchar(36)"`
	ResourceKey      string            `bun:"resource_key,notnull,unique"`
	Author           string            `bun:"author"`
	FromCode         bool              `bun:"from_code,notnull"`
	IsModified       bool              `bun:"is_modified,notnull"`
	IsHidden         bool              `bun:"is_hidden,notnull"`
	ModificationDate time.Time         `bun:"modification_date,notnull"`
	Translations     translationColumn `bun:"translations,type:text"`
}

// translationColumn stores translations as a JSON document.
type translationColumn []resources.Translation

func (c translationColumn) Value() (driver.Value, error) {
	if c == nil {
		c = translationColumn{}
	}
	b, err := json.Marshal([]resources.Translation(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *translationColumn) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("bunstore: cannot scan %T into translations", src)
	}
	if len(raw) == 0 {
		*c = nil
		return nil
	}
	var list []resources.Translation
	if err := json.Unmarshal(raw, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

func recordHandlers() repository.ModelHandlers[*resourceRecord] {
	return repository.ModelHandlers[*resourceRecord]{
		NewRecord: func() *resourceRecord {
			return &resourceRecord{}
		},
		GetID: func(rec *resourceRecord) uuid.UUID {
			if rec == nil {
				return uuid.Nil
			}
			return rec.ID
		},
		SetID: func(rec *resourceRecord, id uuid.UUID) {
			rec.ID = id
		},
		GetIdentifier: func() string {
			return keyColumn
		},
	}
}

func toRecord(r *resources.LocalizationResource) *resourceRecord {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		id = uuid.Nil
	}
	return &resourceRecord{
		ID:               id,
		ResourceKey:      r.ResourceKey,
		Author:           r.Author,
		FromCode:         r.FromCode,
		IsModified:       r.IsModified,
		IsHidden:         r.IsHidden,
		ModificationDate: r.ModificationDate,
		Translations:     append(translationColumn(nil), r.Translations...),
	}
}

func (rec *resourceRecord) toResource() resources.LocalizationResource {
	return resources.LocalizationResource{
		ID:               rec.ID.String(),
		ResourceKey:      rec.ResourceKey,
		Author:           rec.Author,
		FromCode:         rec.FromCode,
		IsModified:       rec.IsModified,
		IsHidden:         rec.IsHidden,
		ModificationDate: rec.ModificationDate.UTC(),
		Translations:     []resources.Translation(rec.Translations),
	}
}

// contentColumns writes every mutable column explicitly so false and empty
// values are stored on update.
func contentColumns(rec *resourceRecord) []repository.UpdateCriteria {
	return []repository.UpdateCriteria{
		repository.UpdateSetColumn("author", rec.Author),
		repository.UpdateSetColumn("from_code", rec.FromCode),
		repository.UpdateSetColumn("is_modified", rec.IsModified),
		repository.UpdateSetColumn("is_hidden", rec.IsHidden),
		repository.UpdateSetColumn("modification_date", rec.ModificationDate),
		repository.UpdateSetColumn("translations", rec.Translations),
	}
}
