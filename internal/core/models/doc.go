// Package models defines the entities that live on the timeline: segments,
// text, shape, image and gradient overlays, and effects.
//
// Every entity embeds Base, which carries the identity, the time range, the
// track and the paint layer. Entities are plain records; copying a slice of
// them copies them fully, which is what the history snapshots rely on. Effect
// parameters are a closed union keyed by EffectType.
package models
