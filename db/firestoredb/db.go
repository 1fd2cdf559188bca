package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	appDb "github.com/navbryce/next-dorm-blog/db"
	"github.com/navbryce/next-dorm-blog/util"
)

type FirestoreDB struct {
	*PostDB
	client *firestore.Client
}

func GetDatabase(ctx context.Context, app *firebase.App) (appDb.Database, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, util.WrapErr("failed to create firestore client", err)
	}
	return &FirestoreDB{
		PostDB: getPostDB(client),
		client: client,
	}, nil
}

func (fdb *FirestoreDB) Close() error {
	return fdb.client.Close()
}
