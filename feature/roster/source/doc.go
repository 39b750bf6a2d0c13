// Package source talks to the external personnel API.
//
// A run authenticates with the configured credentials, downloads the
// employee list of one company and turns it into reconcile.Record values:
//
//	client := source.NewClient(cfg.Source, nil)
//	payload, err := client.Fetch(ctx, models.CompanyTRN)
//	records, rejected := source.NewNormalizer(cfg.Source.RoleFilter, log).
//	    Normalize(models.CompanyTRN, payload.Employees)
//
// The raw response body is kept on the Payload so it can be archived and
// replayed later with Decode.
package source
