package systems

// Integrator advances every particle channel once per frame and composes
// the render output. It is the sole writer of the buffer's mutable arrays;
// the frame loop calls Step exactly once per animation frame, before any
// render submission.
type Integrator struct {
	buf    *ParticleBuffer
	timing *TimingStore
	turb   *Turbulence

	time float64 // engine clock, seconds
}

func NewIntegrator(buf *ParticleBuffer, timing *TimingStore, turb *Turbulence) *Integrator {
	return &Integrator{buf: buf, timing: timing, turb: turb}
}

// Time returns the engine clock in seconds.
func (ig *Integrator) Time() float64 { return ig.time }

// SetTime rewinds or pins the engine clock (deterministic capture).
func (ig *Integrator) SetTime(t float64) { ig.time = t }

func (ig *Integrator) Buffer() *ParticleBuffer { return ig.buf }

func (ig *Integrator) Timing() *TimingStore { return ig.timing }

// referenceFPS converts wall seconds into the frame unit the timing
// constants are authored in.
const referenceFPS = 60

// snapEps stops asymptotic drift once a channel has visually arrived.
const snapEps = 1e-3

// Step advances the clock by dt seconds, integrates all three channels
// against the sampled preset, and rewrites the composed output arrays.
// seq supplies the formed targets; camOffset is the live scroll offset the
// drag channel chases.
func (ig *Integrator) Step(dt float64, p Preset, seq *Sequence, camOffset float64) {
	ig.time += dt
	df := float32(dt * referenceFPS)
	b := ig.buf

	visPct := float32(p.VisiblePct)
	movPct := float32(p.MovePct)
	cam := float32(camOffset)
	dragRange := float32(p.DragRange)
	influence := p.Influence
	quietTurb := p.Turb1.Amount == 0 && p.Turb2.Amount == 0

	for i := 0; i < b.Count; i++ {
		var fadeTgt float32
		if b.VisRank[i] < visPct {
			fadeTgt = 1
		}
		b.FadeRaw[i], b.FadeCur[i] = advance(b.FadeRaw[i], b.FadeCur[i], fadeTgt, ig.timing.FadeSpeed[i], df)

		var moveTgt float32
		if b.MovRank[i] < movPct {
			moveTgt = 1
		}
		b.MoveRaw[i], b.MoveCur[i] = advance(b.MoveRaw[i], b.MoveCur[i], moveTgt, ig.timing.MoveSpeed[i], df)

		// drag chases the live offset and never snaps: the lag is the effect
		k := ig.timing.DragSpeed[i] * df
		if k > 1 {
			k = 1
		}
		b.Drag[i] += (cam - b.Drag[i]) * k

		var disp Vec3
		if !quietTurb {
			disp = ig.turb.Displace(
				Vec3{float64(b.SpawnX[i]), float64(b.SpawnY[i]), float64(b.SpawnZ[i])},
				ig.time, p.Turb1, p.Turb2,
			)
		}
		cloudX := b.SpawnX[i] + float32(disp.X*influence)
		cloudY := b.SpawnY[i] + float32(disp.Y*influence) + b.Drag[i]*dragRange
		cloudZ := b.SpawnZ[i] + float32(disp.Z*influence)

		// formed targets sit on the plane at the sequence's world offset
		formedX := seq.X[i] + seq.OffX
		formedY := seq.Y[i] + seq.OffY

		m := b.MoveCur[i]
		b.OutX[i] = cloudX + (formedX-cloudX)*m
		b.OutY[i] = cloudY + (formedY-cloudY)*m
		b.OutZ[i] = cloudZ - cloudZ*m
		b.OutAlpha[i] = b.FadeCur[i]
	}
}

// advance is one channel step: linear raw progress toward the target's end
// of [0, 1], smoothstep on emission, snap once close enough.
func advance(raw, cur, tgt, speed, df float32) (float32, float32) {
	if tgt > cur {
		raw += speed * df
	} else if tgt < cur {
		raw -= speed * df
	}
	raw = clamp01f(raw)
	cur = smoothstepf(raw)
	if d := tgt - cur; d > -snapEps && d < snapEps {
		raw = tgt
		cur = tgt
	}
	return raw, cur
}
