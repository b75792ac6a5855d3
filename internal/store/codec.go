package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"stockledger/internal/models"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns a snapshot into the bytes of a stored blob and back.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(snap models.Snapshot) ([]byte, error)
	Unmarshal(b []byte, snap *models.Snapshot) error
}

// CodecByName returns the codec called "json" or "msgpack".
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSONCodec{}, nil
	case "", "msgpack":
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type JSONCodec struct{}

func (JSONCodec) Name() string        { return "json" }
func (JSONCodec) ContentType() string { return "application/json" }

func (JSONCodec) Marshal(snap models.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

func (JSONCodec) Unmarshal(b []byte, snap *models.Snapshot) error {
	return json.Unmarshal(b, snap)
}

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string        { return "msgpack" }
func (MsgpackCodec) ContentType() string { return "application/msgpack" }

func (MsgpackCodec) Marshal(snap models.Snapshot) ([]byte, error) {
	return msgpack.Marshal(snap)
}

func (MsgpackCodec) Unmarshal(b []byte, snap *models.Snapshot) error {
	return msgpack.Unmarshal(b, snap)
}

func decode(c Codec, b []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.Unmarshal(b, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode %s snapshot: %w", c.Name(), err)
	}
	if snap.Version > models.SnapshotVersion {
		return models.Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, models.SnapshotVersion)
	}
	return snap, nil
}

// blobName is the file or object name holding portfolio name.
func blobName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid portfolio name %q", name)
	}
	return name + ".portfolio", nil
}
