package layout

import (
	"math"

	"github.com/mhagen/loreatlas/pkg/world"
)

// =============================================================================
// Constants - Single Source of Truth for Placement Geometry
// =============================================================================

// World center. Everything orbits this point; "further from center" is the
// only geographic statement the layout makes.
const (
	CenterX = 500.0
	CenterY = 500.0
)

// Placement distances and boosts. Fixed constants, never derived from node
// count except where divided by sibling count for angular spacing.
const (
	countryRadius   = 260.0 // country ring around the world center
	provinceOrbit   = 120.0 // province distance from its parent country
	provinceRing    = 160.0 // fallback ring for parentless provinces
	cityOrbit       = 55.0  // inland city distance from its parent province
	cityRing        = 200.0 // fallback ring for parentless cities
	coastalCityPush = 85.0  // extra distance along the country→province ray
	cityFanStep     = 0.22  // radians between coastal city siblings on the ray
	townOrbit       = 32.0  // town distance from its parent city
	townRing        = 240.0 // fallback ring for parentless towns
	standaloneRing  = 340.0 // ring for locations with no tier

	coastalBoost = 1.35 // radius multiplier for coastal countries/provinces/cities
	townBoost    = 1.15 // smaller coastal multiplier at town scale

	angleJitterFrac = 0.10 // jitter is ±10% of the angular step
	degenerateEps   = 1e-6 // below this, a direction vector has no usable angle
)

// =============================================================================
// Types
// =============================================================================

// Node is a positioned location. Created fresh on every generation pass and
// never mutated afterwards; a new slice replaces the old one entirely.
type Node struct {
	ID        string     `json:"id" bson:"id"`
	Name      string     `json:"name" bson:"name"`
	Tier      world.Tier `json:"tier,omitempty" bson:"tier,omitempty"`
	X         float64    `json:"x" bson:"x"`
	Y         float64    `json:"y" bson:"y"`
	Residents []string   `json:"residents,omitempty" bson:"residents,omitempty"`
}

// Options configures a generation pass.
type Options struct {
	// Seed is the layout seed from the override state. Bumping it produces
	// a new arrangement for every node whose position is not overridden.
	Seed uint64
}

type point struct{ x, y float64 }

// =============================================================================
// Layout Generator
// =============================================================================

// Generate computes positions for every location, processing tiers strictly
// outermost first so a child can always look up an already-positioned
// parent. It holds no incremental state: re-run it from scratch whenever
// the location set changes.
//
// A node whose declared parent is absent from the input (or not yet
// positioned) falls back to its tier's independent ring.
func Generate(locs []world.Location, opts Options) []Node {
	g := &generator{
		byID:       world.ByID(locs),
		positioned: make(map[string]point, len(locs)),
		seed:       opts.Seed,
	}

	buckets := partition(locs)

	g.placeCountries(buckets[world.TierCountry])
	g.placeProvinces(buckets[world.TierProvince])
	g.placeCities(buckets[world.TierCity])
	g.placeTowns(buckets[world.TierTown])
	g.placeStandalone(buckets[world.TierNone])

	return g.nodes
}

type generator struct {
	byID       map[string]*world.Location
	positioned map[string]point
	nodes      []Node
	seed       uint64
}

// partition splits the input into the five tier buckets, preserving input
// order within each bucket.
func partition(locs []world.Location) map[world.Tier][]world.Location {
	buckets := make(map[world.Tier][]world.Location, 5)
	for _, l := range locs {
		buckets[l.Tier] = append(buckets[l.Tier], l)
	}
	return buckets
}

// emit records a node's final position.
func (g *generator) emit(l world.Location, p point) {
	g.positioned[l.ID] = p
	g.nodes = append(g.nodes, Node{
		ID:        l.ID,
		Name:      l.Name,
		Tier:      l.Tier,
		X:         p.x,
		Y:         p.y,
		Residents: l.Residents,
	})
}

// coastal runs the classifier on a location's free text.
func (g *generator) coastal(l world.Location) bool {
	return Coastal(l.Summary, l.Overview, l.Tags)
}

// jitter draws the deterministic angular jitter for a name: ±10% of step.
func (g *generator) jitter(name string, step float64) float64 {
	return (SeededRandom(nameSeed(name, g.seed)) - 0.5) * 2 * angleJitterFrac * step
}

// ringStep returns the angular step for n siblings, guarding the divisor.
func ringStep(n int) float64 {
	if n < 1 {
		n = 1
	}
	return 2 * math.Pi / float64(n)
}

func polar(center point, angle, dist float64) point {
	return point{
		x: center.x + math.Cos(angle)*dist,
		y: center.y + math.Sin(angle)*dist,
	}
}

var worldCenter = point{x: CenterX, y: CenterY}

// placeCountries spreads countries on a ring around the world center,
// evenly by index with per-name jitter. Coastal countries sit further out:
// that extra radius is the whole of the engine's geography.
func (g *generator) placeCountries(countries []world.Location) {
	step := ringStep(len(countries))
	for i, c := range countries {
		angle := step*float64(i) + g.jitter(c.Name, step)
		radius := countryRadius
		if g.coastal(c) {
			radius *= coastalBoost
		}
		g.emit(c, polar(worldCenter, angle, radius))
	}
}

// placeProvinces orbits sibling provinces evenly around their parent
// country. Provinces without a resolvable parent share an independent ring
// around the center, smaller than the country ring.
func (g *generator) placeProvinces(provinces []world.Location) {
	groups, orphans := g.groupByParent(provinces)

	for _, grp := range groups {
		parent := g.positioned[grp.parentID]
		step := ringStep(len(grp.members))
		for i, p := range grp.members {
			angle := step*float64(i) + g.jitter(p.Name, step)
			dist := provinceOrbit
			if g.coastal(p) {
				dist *= coastalBoost
			}
			g.emit(p, polar(parent, angle, dist))
		}
	}

	g.placeRing(orphans, provinceRing, coastalBoost)
}

// placeCities orbits inland cities around their parent province. Coastal
// cities instead get pushed outward along the ray the province already
// leans on: the direction from the province's parent country through the
// province, fanned slightly per sibling so they don't stack.
func (g *generator) placeCities(cities []world.Location) {
	groups, orphans := g.groupByParent(cities)

	for _, grp := range groups {
		provPos := g.positioned[grp.parentID]
		countryPos, hasCountry := g.grandparentPos(grp.parentID)
		step := ringStep(len(grp.members))

		for i, c := range grp.members {
			if g.coastal(c) && hasCountry {
				g.emit(c, g.coastalCityPosition(c, provPos, countryPos, i, len(grp.members)))
				continue
			}
			angle := step*float64(i) + g.jitter(c.Name, step)
			dist := cityOrbit
			if g.coastal(c) {
				// No resolvable grandparent: fall back to orbiting the
				// province directly, boosted.
				dist *= coastalBoost
			}
			g.emit(c, polar(provPos, angle, dist))
		}
	}

	g.placeRing(orphans, cityRing, coastalBoost)
}

// coastalCityPosition places a city beyond its province, away from the
// country center. When the province sits on top of its country the ray has
// no direction; the fallback is a fixed per-name default angle so the
// placement stays deterministic rather than amplifying float noise.
func (g *generator) coastalCityPosition(c world.Location, provPos, countryPos point, idx, siblings int) point {
	dx := provPos.x - countryPos.x
	dy := provPos.y - countryPos.y

	var base float64
	if math.Hypot(dx, dy) < degenerateEps {
		base = 2 * math.Pi * SeededRandom(nameSeed(c.Name, g.seed)+seedStride)
	} else {
		base = math.Atan2(dy, dx)
	}

	fan := (float64(idx) - float64(siblings-1)/2) * cityFanStep
	return polar(provPos, base+fan, coastalCityPush)
}

// placeTowns is the same sibling-orbit rule as inland cities, relative to a
// parent city, with a smaller base distance and a smaller coastal boost.
func (g *generator) placeTowns(towns []world.Location) {
	groups, orphans := g.groupByParent(towns)

	for _, grp := range groups {
		parent := g.positioned[grp.parentID]
		step := ringStep(len(grp.members))
		for i, t := range grp.members {
			angle := step*float64(i) + g.jitter(t.Name, step)
			dist := townOrbit
			if g.coastal(t) {
				dist *= townBoost
			}
			g.emit(t, polar(parent, angle, dist))
		}
	}

	g.placeRing(orphans, townRing, townBoost)
}

// placeStandalone puts untiered locations on their own outer ring. The
// coastal boost is applied uniformly for consistency even though its
// visual effect is small at this radius.
func (g *generator) placeStandalone(standalone []world.Location) {
	g.placeRing(standalone, standaloneRing, coastalBoost)
}

// placeRing distributes locations on an independent ring around the world
// center, angle by index with per-name jitter.
func (g *generator) placeRing(locs []world.Location, radius, boost float64) {
	step := ringStep(len(locs))
	for i, l := range locs {
		angle := step*float64(i) + g.jitter(l.Name, step)
		dist := radius
		if g.coastal(l) {
			dist *= boost
		}
		g.emit(l, polar(worldCenter, angle, dist))
	}
}

// =============================================================================
// Parent Grouping
// =============================================================================

type siblingGroup struct {
	parentID string
	members  []world.Location
}

// groupByParent splits locations into sibling groups keyed by an already
// positioned parent, preserving input order both across groups (by first
// appearance) and within each group. Locations whose parent is missing or
// not yet positioned are returned as orphans.
func (g *generator) groupByParent(locs []world.Location) ([]siblingGroup, []world.Location) {
	var groups []siblingGroup
	index := make(map[string]int)
	var orphans []world.Location

	for _, l := range locs {
		if l.ParentID == "" {
			orphans = append(orphans, l)
			continue
		}
		if _, ok := g.positioned[l.ParentID]; !ok {
			orphans = append(orphans, l)
			continue
		}
		gi, ok := index[l.ParentID]
		if !ok {
			gi = len(groups)
			index[l.ParentID] = gi
			groups = append(groups, siblingGroup{parentID: l.ParentID})
		}
		groups[gi].members = append(groups[gi].members, l)
	}

	return groups, orphans
}

// grandparentPos resolves the positioned parent of the given location id
// (a province's country, for coastal city placement).
func (g *generator) grandparentPos(provinceID string) (point, bool) {
	prov, ok := g.byID[provinceID]
	if !ok || prov.ParentID == "" {
		return point{}, false
	}
	p, ok := g.positioned[prov.ParentID]
	return p, ok
}
