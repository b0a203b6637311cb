package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/config"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

// Container carries the shared infrastructure handles. It is built once in
// main and passed explicitly to the router wiring; there are no package-level
// singletons, so tests can construct a Container with only the pieces they
// need.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
}
