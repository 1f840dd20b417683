/*
Package entitydata is the storage layer of the Envitrack environmental
project management platform. It persists customers, their CO2-removal
and wastewater-treatment projects, and the measurements recorded against
those projects in one DynamoDB table.

Every entity lives under a typed partition key ("CUSTOMER#id",
"PROJECT#id", "MEASUREMENT#id") with a fixed METADATA sort key. Two
secondary indexes serve the list queries: a status index sorted by name
(or reading time for measurements) and a category index sorted by
creation time. All index key attributes are derived from entity fields
and rewritten whenever the underlying field changes.

Basic usage:

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	repos, err := entitydata.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	customer, err := repos.Customers.Create(ctx, repository.CustomerAttributes{
		Name:     "Nordkalk AB",
		Industry: "mining",
	})

	page, err := repos.Projects.List(ctx, repository.ListRequest{
		Filter: repository.Filter{Status: "active"},
	})

Cross-entity rules are enforced by the repositories: a project requires
an existing customer, a measurement requires an existing project, and
parents with dependents cannot be deleted. Parent dependent counts are
maintained atomically and never go negative.
*/
package entitydata
