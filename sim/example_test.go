package sim_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/romainfrancois/simglm/cluster"
	"github.com/romainfrancois/simglm/fixef"
	"github.com/romainfrancois/simglm/ranef"
	"github.com/romainfrancois/simglm/sim"
	"github.com/romainfrancois/simglm/variate"
)

// ExampleTwoLevel simulates a longitudinal design: 20 clusters of 10
// observations, a time trend, a cluster-level weight covariate, and a
// random intercept plus time slope.
func ExampleTwoLevel() {
	cfg := sim.DefaultConfig()
	cfg.Fixed = []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "weight", Var: variate.Spec{Name: "weight", Kind: variate.Continuous, Level: 2,
			Dist: variate.DistSpec{Name: "normal", Params: map[string]float64{"mean": 180, "sd": 30}}}},
	}
	cfg.FixedParams = []float64{4, 0.5, 0.1}
	cfg.Random = []string{"time"}
	cfg.RandomSpec = &ranef.Spec{Variances: []float64{8, 3}}

	rng := rand.New(rand.NewPCG(1, 0))
	ds, err := sim.TwoLevel(cfg, cluster.SizeSpec{Count: 20, Size: 10}, rng)
	if err != nil {
		fmt.Println("simulate:", err)
		return
	}

	fmt.Println("rows:", ds.Rows())
	fmt.Println("columns:", ds.Columns())
	ids, _ := ds.Int(sim.ColClustID)
	fmt.Println("first cluster id:", ids[0], "last cluster id:", ids[ds.Rows()-1])
	// Output:
	// rows: 200
	// columns: [Intercept time weight b0 b1 err sim_data withinID clustID]
	// first cluster id: 1 last cluster id: 20
}
