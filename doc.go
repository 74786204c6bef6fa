// Package simglm is an in-memory engine for simulating datasets from
// multilevel (hierarchical) linear regression models — the workhorse
// behind Monte-Carlo power analyses and simulation studies of
// longitudinal and clustered designs.
//
// 🚀 What does simglm generate?
//
//	Given a declarative specification of fixed effects, random effects,
//	error structure, and cluster sample sizes, it assembles a single
//	row-per-observation dataset with correct statistical properties:
//		• Fixed-effect design matrices honoring each variable's level
//		• Cluster-level random effects, replicated down to observations
//		• Level-1 residuals with optional serial correlation or
//		  heteroscedasticity
//		• Unbalanced and cross-classified designs at up to three
//		  nesting levels
//
// ✨ Why choose simglm?
//
//   - Deterministic – every generating call takes an explicit *rand.Rand;
//     same seed, same dataset, bit for bit
//   - Honest failures – configuration mistakes abort with sentinel
//     errors carrying both conflicting counts, never silent truncation
//   - Pure Go computation – no I/O, no globals, no hidden state
//
// Everything is organized under six subpackages, leaves first:
//
//	cluster/ — balanced/unbalanced cluster-size resolution & index bookkeeping
//	variate/ — simulated covariate columns + named generating distributions
//	fixef/   — fixed-effect design matrices, contrasts, interactions,
//	           correlated covariates
//	ranef/   — cluster-level random-effect draws, incl. cross-classified pools
//	noise/   — level-1 residuals: iid, ARMA, heteroscedastic
//	sim/     — single-, two- and three-level assemblers producing the dataset
//
// A two-level run in one call:
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	cfg := sim.DefaultConfig()
//	cfg.Fixed = []fixef.Term{
//	  {Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
//	  {Name: "weight", Var: variate.Spec{Name: "weight", Kind: variate.Continuous, Level: 2}},
//	}
//	cfg.FixedParams = []float64{4, 0.5, 0.1}
//	cfg.RandomSpec = &ranef.Spec{Variances: []float64{8, 3}}
//	cfg.Random = []string{"time"}
//	ds, err := sim.TwoLevel(cfg, cluster.SizeSpec{Count: 20, Size: 10}, rng)
package simglm
