package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// jsonFieldMaxSize bounds the list fields of a quote. Room schedules of
// larger projects easily exceed the PocketBase default.
const jsonFieldMaxSize = 5 << 20

// Setup programmatically creates/ensures the quotes collection exists.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, QuotesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: FieldOwner, Required: false})
		c.Fields.Add(&core.TextField{Name: "title", Required: false})
		for _, name := range textFields {
			c.Fields.Add(&core.TextField{Name: name, Required: false})
		}
		for _, name := range numberFields {
			c.Fields.Add(&core.NumberField{Name: name, Required: false})
		}
		for _, name := range jsonFields {
			c.Fields.Add(&core.JSONField{Name: name, MaxSize: jsonFieldMaxSize})
		}
		c.Fields.Add(&core.JSONField{Name: FieldExtensions, MaxSize: jsonFieldMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_user_id", false, FieldOwner, "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
