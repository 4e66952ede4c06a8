// Package audio implements the BGM (4-slot) and SE (256-slot) audio
// managers. Ground: teacher's internal/apu channel array (fixed-size
// []AudioChannel, per-channel enable/volume/duration bookkeeping)
// generalized per spec.md §4.9 into two slot pools whose actual mixing
// is delegated to an external host.AudioMixer rather than synthesized
// in-process.
package audio

import "rfvp/internal/host"

// Slot is one audio slot's bookkeeping. The source path and playing
// handle are tracked here; the audio bytes themselves are handed to
// Play by the caller and not retained. The mixer only ever sees
// Play/Stop calls driven by this state.
type Slot struct {
	Loaded     bool
	SourcePath string
	Handle     host.AudioHandle
	Playing    bool
	Volume     float32
	Pan        float32
	Muted      bool
	Repeat     bool
	SoundType  int32
	hasType    bool
}

func newSlot() Slot {
	return Slot{Volume: 1, Handle: host.NoHandle}
}

// Manager is a fixed-capacity pool of audio slots (BGM: 4, SE: 256)
// backed by a host.AudioMixer.
type Manager struct {
	slots      []Slot
	mixer      host.AudioMixer
	typeVolume map[int32]float32
}

const (
	BGMSlots = 4
	SESlots  = 256
)

func NewManager(capacity int, mixer host.AudioMixer) *Manager {
	m := &Manager{
		slots:      make([]Slot, capacity),
		mixer:      mixer,
		typeVolume: make(map[int32]float32),
	}
	for i := range m.slots {
		m.slots[i] = newSlot()
	}
	return m
}

func NewBGMManager(mixer host.AudioMixer) *Manager { return NewManager(BGMSlots, mixer) }
func NewSEManager(mixer host.AudioMixer) *Manager  { return NewManager(SESlots, mixer) }

func (m *Manager) valid(slot int) bool { return slot >= 0 && slot < len(m.slots) }

// Load marks slot as holding data, retaining sourcePath for snapshot
// rehydration (spec.md's "source_path: Option<string>"). It does not
// itself start playback.
func (m *Manager) Load(slot int, sourcePath string) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	m.stopHandle(s)
	s.Loaded = true
	s.SourcePath = sourcePath
	s.Playing = false
}

// Play starts playback of slot's loaded data. Any previously playing
// handle on this slot is stopped first — "stopping an old handle
// before installing a new one is mandatory" (spec.md §4.9).
func (m *Manager) Play(slot int, data []byte, repeat bool, volume, pan float32) error {
	if !m.valid(slot) || !m.slots[slot].Loaded {
		return nil
	}
	s := &m.slots[slot]
	m.stopHandle(s)
	s.Repeat = repeat
	s.Volume = volume
	s.Pan = pan
	if s.Muted {
		volume = 0
	}
	h, err := m.mixer.Play(data, repeat, m.effectiveVolume(s, volume), pan)
	if err != nil {
		return err
	}
	s.Handle = h
	s.Playing = true
	return nil
}

func (m *Manager) stopHandle(s *Slot) {
	if s.Handle != host.NoHandle {
		m.mixer.Stop(s.Handle)
	}
	s.Handle = host.NoHandle
	s.Playing = false
}

// Stop halts slot's playback.
func (m *Manager) Stop(slot int) {
	if !m.valid(slot) {
		return
	}
	m.stopHandle(&m.slots[slot])
}

// SetVolume updates slot's volume, clamped to 0 while muted.
func (m *Manager) SetVolume(slot int, v float32) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	s.Volume = v
	if s.Playing {
		eff := v
		if s.Muted {
			eff = 0
		}
		m.mixer.SetVolume(s.Handle, m.effectiveVolume(s, eff))
	}
}

func (m *Manager) SetPan(slot int, p float32) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	s.Pan = p
	if s.Playing {
		m.mixer.SetPan(s.Handle, p)
	}
}

// SetType assigns slot to a category for group-volume control.
func (m *Manager) SetType(slot int, category int32) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	s.SoundType = category
	s.hasType = true
}

// SetTypeVolume sets the category-level volume multiplier applied to
// every slot sharing that category.
func (m *Manager) SetTypeVolume(category int32, v float32) {
	m.typeVolume[category] = v
	for i := range m.slots {
		s := &m.slots[i]
		if s.Playing && s.hasType && s.SoundType == category {
			eff := s.Volume
			if s.Muted {
				eff = 0
			}
			m.mixer.SetVolume(s.Handle, m.effectiveVolume(s, eff))
		}
	}
}

func (m *Manager) effectiveVolume(s *Slot, base float32) float32 {
	if s.hasType {
		if mult, ok := m.typeVolume[s.SoundType]; ok {
			return base * mult
		}
	}
	return base
}

// SilentOn mutes slot; the mute flag persists through subsequent Play
// calls (spec.md §4.9), and volume writes are clamped to 0 while muted.
func (m *Manager) SilentOn(slot int) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	s.Muted = true
	if s.Playing {
		m.mixer.SetVolume(s.Handle, 0)
	}
}

// SilentOff unmutes slot, restoring its last-set volume if playing.
func (m *Manager) SilentOff(slot int) {
	if !m.valid(slot) {
		return
	}
	s := &m.slots[slot]
	s.Muted = false
	if s.Playing {
		m.mixer.SetVolume(s.Handle, m.effectiveVolume(s, s.Volume))
	}
}

func (m *Manager) IsPlaying(slot int) bool {
	if !m.valid(slot) {
		return false
	}
	return m.slots[slot].Playing
}

func (m *Manager) Slot(slot int) Slot {
	if !m.valid(slot) {
		return Slot{}
	}
	return m.slots[slot]
}

func (m *Manager) Capacity() int { return len(m.slots) }

// SlotSnapshot is a slot's bookkeeping without its live mixer Handle,
// which is never serialized — apply step 4 ("restart any playing=true
// slots") re-establishes a fresh handle via Play instead of restoring
// the opaque one (spec.md §4.10).
type SlotSnapshot struct {
	Loaded     bool
	SourcePath string
	Playing    bool
	Volume     float32
	Pan        float32
	Muted      bool
	Repeat     bool
	SoundType  int32
	HasType    bool
}

// Export captures every slot's bookkeeping plus the category-volume
// table, for the snapshot codec.
func (m *Manager) Export() (slots []SlotSnapshot, typeVolume map[int32]float32) {
	out := make([]SlotSnapshot, len(m.slots))
	for i, s := range m.slots {
		out[i] = SlotSnapshot{
			Loaded:     s.Loaded,
			SourcePath: s.SourcePath,
			Playing:    s.Playing,
			Volume:     s.Volume,
			Pan:        s.Pan,
			Muted:      s.Muted,
			Repeat:     s.Repeat,
			SoundType:  s.SoundType,
			HasType:    s.hasType,
		}
	}
	tv := make(map[int32]float32, len(m.typeVolume))
	for k, v := range m.typeVolume {
		tv[k] = v
	}
	return out, tv
}

// Import resets every slot's bookkeeping from slots and typeVolume
// (snapshot apply step 3: the caller is expected to have already
// stopped every handle via Stop, and to call RestorePlayback per slot
// afterward — Import itself installs only bookkeeping, not playback).
func (m *Manager) Import(slots []SlotSnapshot, typeVolume map[int32]float32) {
	if len(slots) != len(m.slots) {
		return
	}
	for i, s := range slots {
		m.slots[i] = Slot{
			Loaded:     s.Loaded,
			SourcePath: s.SourcePath,
			Handle:     host.NoHandle,
			// Playing carries the snapshot's intent through to
			// RestorePlayback, which consumes it and corrects Playing to
			// match whether the mixer actually accepted a fresh handle;
			// no tick can observe the momentary Handle=NoHandle/Playing=
			// true inconsistency between Import and RestorePlayback.
			Playing: s.Playing,
			Volume:  s.Volume,
			Pan:        s.Pan,
			Muted:      s.Muted,
			Repeat:     s.Repeat,
			SoundType:  s.SoundType,
			hasType:    s.HasType,
		}
	}
	m.typeVolume = make(map[int32]float32, len(typeVolume))
	for k, v := range typeVolume {
		m.typeVolume[k] = v
	}
}

// RestorePlayback re-loads slot's source from vfs and restarts it if
// the snapshot captured it as playing (apply steps 3-4). Errors reading
// the VFS are returned to the caller; snapshot.Apply discards them
// rather than failing the whole load.
func (m *Manager) RestorePlayback(slot int, vfs host.VFS) error {
	if !m.valid(slot) {
		return nil
	}
	s := &m.slots[slot]
	if !s.Loaded || s.SourcePath == "" {
		return nil
	}
	data, err := vfs.Read(s.SourcePath)
	if err != nil {
		return err
	}
	wasPlaying := s.Playing
	repeat, volume, pan := s.Repeat, s.Volume, s.Pan
	s.Playing = false
	if wasPlaying {
		return m.Play(slot, data, repeat, volume, pan)
	}
	return nil
}
