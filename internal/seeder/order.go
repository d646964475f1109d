package seeder

// order returns requests so that each runs after the requests for entities it
// references. Ties keep registration order; a cycle is broken by taking the
// earliest remaining request.
func order(reqs []*resolved) []*resolved {
	registered := map[string]bool{}
	for _, r := range reqs {
		registered[r.desc.Name] = true
	}

	pending := map[string]int{}
	for _, r := range reqs {
		pending[r.desc.Name]++
	}

	placed := make([]bool, len(reqs))
	out := make([]*resolved, 0, len(reqs))
	for len(out) < len(reqs) {
		next := -1
		for i, r := range reqs {
			if placed[i] {
				continue
			}
			if ready(r, registered, pending) {
				next = i
				break
			}
		}
		if next < 0 {
			for i := range reqs {
				if !placed[i] {
					next = i
					break
				}
			}
		}
		placed[next] = true
		pending[reqs[next].desc.Name]--
		out = append(out, reqs[next])
	}
	return out
}

func ready(r *resolved, registered map[string]bool, pending map[string]int) bool {
	for _, dep := range r.desc.Dependencies() {
		if dep == r.desc.Name || !registered[dep] {
			continue
		}
		if pending[dep] > 0 {
			return false
		}
	}
	return true
}
