/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package entitydata

import (
	"context"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/envitrack/entitydata/config"
	"github.com/envitrack/entitydata/datastore"
	"github.com/envitrack/entitydata/datastore/ddb"
	"github.com/envitrack/entitydata/models"
	"github.com/envitrack/entitydata/repository"
)

// Repositories bundles the three entity repositories wired over one
// table. Construct it once at process start and share it.
type Repositories struct {
	Customers    *repository.CustomerRepository
	Projects     *repository.ProjectRepository
	Measurements *repository.MeasurementRepository
}

// Stores are the typed datastore handles a Repositories bundle is built
// on. Production wiring fills them from one DynamoDB client; tests fill
// them with mocks.
type Stores struct {
	Customers    datastore.DataStore[models.Customer]
	Projects     datastore.DataStore[models.Project]
	Measurements datastore.DataStore[models.Measurement]
}

// New wires the repositories over the supplied stores. The project and
// measurement repositories receive their parent repositories so
// dependent counts stay in step across entity boundaries.
func New(stores Stores, table config.Table, log *zap.Logger) *Repositories {
	if log == nil {
		log = zap.NewNop()
	}
	indexes := repository.TableIndexes{
		StatusIndex:   table.Indexes.Status,
		CategoryIndex: table.Indexes.Category,
	}

	customers := repository.NewCustomerRepository(
		stores.Customers, table.Name, indexes, log.Named("customers"))
	projects := repository.NewProjectRepository(
		stores.Projects, table.Name, indexes, customers, log.Named("projects"))
	measurements := repository.NewMeasurementRepository(
		stores.Measurements, table.Name, indexes, projects, log.Named("measurements"))

	return &Repositories{
		Customers:    customers,
		Projects:     projects,
		Measurements: measurements,
	}
}

// Connect builds a DynamoDB client from the configuration and wires the
// repositories over it.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Repositories, error) {
	client, err := ddb.NewDynamoDBClient(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	return FromClient(client, cfg.Table, log), nil
}

// FromClient wires the repositories over an injected DynamoDB client,
// for callers that manage the client lifecycle themselves.
func FromClient(client *sdk.Client, table config.Table, log *zap.Logger) *Repositories {
	if log == nil {
		log = zap.NewNop()
	}
	return New(Stores{
		Customers:    ddb.New[models.Customer](client, table.Name, log.Named("ddb")),
		Projects:     ddb.New[models.Project](client, table.Name, log.Named("ddb")),
		Measurements: ddb.New[models.Measurement](client, table.Name, log.Named("ddb")),
	}, table, log)
}
