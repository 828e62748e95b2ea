package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("_pb_users_auth_")
		if err != nil {
			return err
		}

		// add marketplace role; empty means visitor
		if err := collection.Fields.AddMarshaledJSON([]byte(`{
			"hidden": false,
			"id": "select1466534506",
			"maxSelect": 1,
			"name": "role",
			"presentable": false,
			"required": false,
			"system": false,
			"type": "select",
			"values": [
				"visitor",
				"owner",
				"admin"
			]
		}`)); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("_pb_users_auth_")
		if err != nil {
			return err
		}

		collection.Fields.RemoveById("select1466534506")

		return app.Save(collection)
	})
}
