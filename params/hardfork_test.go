package params

import "testing"

// TestRulesForForkMonotonic checks that every Rules flag, once it turns on
// at its activating fork, stays on for every later fork — a hardfork flag
// never turns back off.
func TestRulesForForkMonotonic(t *testing.T) {
	forks := []Fork{
		Frontier, Homestead, TangerineWhistle, SpuriousDragon, Byzantium,
		Constantinople, Istanbul, Berlin, London, Merge, Shanghai, Cancun,
	}

	flags := func(r Rules) []bool {
		return []bool{
			r.IsHomestead, r.IsTangerineWhistle, r.IsSpuriousDragon,
			r.IsByzantium, r.IsConstantinople, r.IsIstanbul, r.IsBerlin,
			r.IsLondon, r.IsMerge, r.IsShanghai, r.IsCancun,
		}
	}

	var prev []bool
	for _, f := range forks {
		cur := flags(RulesForFork(f))
		for i, on := range prev {
			if on && !cur[i] {
				t.Fatalf("fork %v turned flag %d back off after an earlier fork enabled it", f, i)
			}
		}
		prev = cur
	}
}

func TestRulesForForkLondonImpliesBerlin(t *testing.T) {
	r := RulesForFork(London)
	if !r.IsBerlin {
		t.Fatalf("London must imply Berlin's access-list rules")
	}
}

func TestRulesForForkFrontierHasNoLaterFlags(t *testing.T) {
	r := RulesForFork(Frontier)
	if r.IsByzantium || r.IsBerlin || r.IsLondon || r.IsCancun {
		t.Fatalf("Frontier must not have any later-fork flag set, got %+v", r)
	}
}
