package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/common"
)

var ErrUnknownProtocolVersion = errors.New("unknown protocol version")

// ProtocolVersionID identifies a protocol version. Version N is named "0.N.0".
type ProtocolVersionID uint16

const (
	Version17 ProtocolVersionID = iota + 17
	Version18
	Version19
	Version20
	Version21
	Version22

	LatestProtocolVersion = Version22
	// Version20 is the first protocol version running VM 1.4.1
	firstPubdataIndependentVersion = Version20
)

type VMVersion uint8

const (
	VMVirtualBlocks VMVersion = iota
	VMBoojumIntegration
	VM1_4_1
	VM1_4_2
)

func (v ProtocolVersionID) Semver() *semver.Version {
	return semver.New(0, uint64(v), 0, "", "")
}

func (v ProtocolVersionID) String() string {
	return v.Semver().String()
}

func (v ProtocolVersionID) IsPre1_4_1() bool {
	return v < firstPubdataIndependentVersion
}

func (v ProtocolVersionID) VMVersion() VMVersion {
	switch {
	case v < Version18:
		return VMVirtualBlocks
	case v < Version20:
		return VMBoojumIntegration
	case v == Version20:
		return VM1_4_1
	default:
		return VM1_4_2
	}
}

// ParseProtocolVersion accepts either the numeric id ("20") or the semver name ("0.20.0").
func ParseProtocolVersion(s string) (ProtocolVersionID, error) {
	if !strings.Contains(s, ".") {
		s = "0." + s + ".0"
	}
	ver, err := semver.NewVersion(s)
	if err != nil {
		return 0, fmt.Errorf("parse protocol version %q: %w", s, err)
	}
	if ver.Major() != 0 || ver.Patch() != 0 || ver.Prerelease() != "" {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProtocolVersion, ver)
	}
	id := ProtocolVersionID(ver.Minor())
	if id < Version17 || id > LatestProtocolVersion {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProtocolVersion, ver)
	}
	return id, nil
}

type BaseSystemContractsHashes struct {
	Bootloader common.Hash
	DefaultAA  common.Hash
}
