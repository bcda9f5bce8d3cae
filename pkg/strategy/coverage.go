package strategy

// Coverage aggregates the deal tallies over all hand blocks, per role:
// total deals, the min and max per-block tallies, and the fraction of
// hand classes dealt at least once.
type Coverage struct {
	DealerDeals    int
	DealerMin      int
	DealerMax      int
	DealerCoverage float64

	PoneDeals    int
	PoneMin      int
	PoneMax      int
	PoneCoverage float64
}

// DealCoverage returns the coverage aggregate for both roles.
func (db *DB) DealCoverage() Coverage {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.dealCoverageLocked()
}

func (db *DB) dealCoverageLocked() Coverage {
	var c Coverage
	if len(db.Hands) == 0 {
		return c
	}

	dHit, pHit := 0, 0
	first := true
	for _, h := range db.Hands {
		r := db.HandRows[h]
		d := db.Rows[r.Start].DealtDealer
		p := db.Rows[r.Start].DealtPone

		c.DealerDeals += d
		c.PoneDeals += p
		if d > 0 {
			dHit++
		}
		if p > 0 {
			pHit++
		}

		if first {
			c.DealerMin, c.DealerMax = d, d
			c.PoneMin, c.PoneMax = p, p
			first = false
			continue
		}
		if d < c.DealerMin {
			c.DealerMin = d
		}
		if d > c.DealerMax {
			c.DealerMax = d
		}
		if p < c.PoneMin {
			c.PoneMin = p
		}
		if p > c.PoneMax {
			c.PoneMax = p
		}
	}

	n := float64(len(db.Hands))
	c.DealerCoverage = float64(dHit) / n
	c.PoneCoverage = float64(pHit) / n
	return c
}
