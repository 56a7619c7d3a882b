package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func configureDockerDesktop(t *testing.T) {
	t.Helper()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	socket := filepath.Join(home, ".docker", "run", "docker.sock")
	if info, err := os.Stat(socket); err == nil && !info.IsDir() {
		t.Setenv("DOCKER_HOST", "unix://"+socket)
		t.Setenv("TESTCONTAINERS_DOCKER_SOCKET_OVERRIDE", socket)
	}
}

// setupIntegrationDB starts a throwaway MongoDB and returns a fresh database
// with all indexes in place.
func setupIntegrationDB(t *testing.T) *mongo.Database {
	t.Helper()

	configureDockerDesktop(t)

	containerCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	mongoContainer, err := tcMongo.Run(containerCtx, "mongo:7.0.14")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mongoContainer.Terminate(context.Background()))
	})

	connString, err := mongoContainer.ConnectionString(containerCtx)
	require.NoError(t, err)

	client, err := mongo.Connect(containerCtx, options.Client().ApplyURI(connString))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Disconnect(context.Background()))
	})

	db := client.Database(fmt.Sprintf("billing_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		err := db.Drop(context.Background())
		var cmdErr mongo.CommandError
		if err != nil && (!errors.As(err, &cmdErr) || cmdErr.Code != 26) {
			require.NoError(t, err)
		}
	})

	require.NoError(t, EnsureIndexes(containerCtx, db))
	return db
}

func dec(t testing.TB, s string) primitive.Decimal128 {
	t.Helper()
	v, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return v
}

func namespace(mt *mtest.T) string {
	return fmt.Sprintf("%s.%s", mt.Coll.Database().Name(), mt.Coll.Name())
}
