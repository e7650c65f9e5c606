// Package provider bridges upstream catalogs to the refresh orchestrator.
//
// Client is the fetch contract for already-decoded upstream records; a
// missing record is (nil, nil), never an error. CachingClient memoizes any
// Client with a TTL cache. Service runs the resolver and synthesizer over
// fetched records and exposes one lookup per library kind, returning
// library-shaped metadata the orchestrator applies field group by field
// group. Synthesized entities are cached per item until the cache is
// invalidated alongside a pass reset.
package provider
