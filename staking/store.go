// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking persists the stake manager contract view of every state
// root and serves it back as a pos.StakeManager.
package staking

import (
	"context"
	"encoding/binary"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/dpos/kv"
	"github.com/vechain/dpos/log"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/thor"
)

var logger = log.WithContext("pkg", "staking")

const (
	viewBucket = kv.Bucket("v") // root => view
	idBucket   = kv.Bucket("i") // address => validator id
	addrBucket = kv.Bucket("a") // validator id => address
)

// viewCacheSize is the size in bytes of the encoded views kept in memory.
const viewCacheSize = 16 * 1024 * 1024

var (
	nextIDKey = []byte("next-id")

	ErrUnknownRoot = errors.New("unknown state root")
)

// Store stores stake manager views keyed by state root.
type Store struct {
	db    kv.Store
	views kv.Store
	ids   kv.Store
	addrs kv.Store
	cache *directcache.Cache // root => snappy encoded view
}

var _ pos.Backend = (*Store)(nil)

// NewStore creates a store over db.
func NewStore(db kv.Store) *Store {
	return &Store{
		db:    db,
		views: viewBucket.NewStore(db),
		ids:   idBucket.NewStore(db),
		addrs: addrBucket.NewStore(db),
		cache: directcache.New(viewCacheSize),
	}
}

// Write persists the view of the validator set at root.
func (s *Store) Write(root thor.Bytes32, blockNum uint32, vs *pos.ValidatorSet) error {
	batch := s.db.NewBatch()

	nextID, err := s.nextID()
	if err != nil {
		return err
	}
	assigned := make(map[thor.Address]uint64)
	idOf := func(addr thor.Address) (uint64, error) {
		if id, ok := assigned[addr]; ok {
			return id, nil
		}
		id, found, err := s.ValidatorID(addr)
		if err != nil {
			return 0, err
		}
		if !found {
			id = nextID
			nextID++
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], id)
			if err := idBucket.NewPutter(batch).Put(addr.Bytes(), b[:]); err != nil {
				return 0, err
			}
			if err := addrBucket.NewPutter(batch).Put(b[:], addr.Bytes()); err != nil {
				return 0, err
			}
		}
		assigned[addr] = id
		return id, nil
	}

	v := view{
		BlockNumber: blockNum,
		Proposer:    vs.Proposer(),
		Locked:      new(uint256.Int),
	}
	var overflow bool
	vs.Indexed().ForEach(func(iv *pos.IndexedValidator) bool {
		v.Indexed = append(v.Indexed, indexedEntry{iv.Address, iv.VotingPower})
		amount, of := uint256.FromBig(iv.VotingPower)
		if of {
			overflow = true
			return false
		}
		if _, of = v.Locked.AddOverflow(v.Locked, amount); of {
			overflow = true
			return false
		}
		return true
	})
	if overflow {
		return errors.New("locked amount overflows 256 bits")
	}

	for _, av := range vs.Active().Validators() {
		id, err := idOf(av.Address)
		if err != nil {
			return errors.Wrap(err, "assign validator id")
		}
		v.Active = append(v.Active, activeEntry{
			Address:          av.Address,
			ID:               id,
			NegativePriority: av.Priority.Sign() < 0,
			Priority:         new(big.Int).Abs(av.Priority),
		})
		if len(av.BlsPublicKey) > 0 {
			v.Bls = append(v.Bls, blsEntry{av.Address, av.BlsPublicKey})
		}
	}

	enc, err := rlp.EncodeToBytes(&v)
	if err != nil {
		return errors.Wrap(err, "encode view")
	}
	data := snappy.Encode(nil, enc)
	if err := viewBucket.NewPutter(batch).Put(root.Bytes(), data); err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], nextID)
	if err := batch.Put(nextIDKey, b[:]); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write view")
	}
	_ = s.cache.Set(root.Bytes(), data)
	logger.Trace("stake manager view written", "root", root.AbbrevString(), "block", blockNum, "locked", v.Locked)
	return nil
}

func (s *Store) nextID() (uint64, error) {
	data, err := s.db.Get(nextIDKey)
	if err != nil {
		if s.db.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "get next validator id")
	}
	return binary.BigEndian.Uint64(data), nil
}

// ValidatorID returns the id assigned to the validator.
func (s *Store) ValidatorID(addr thor.Address) (uint64, bool, error) {
	data, err := s.ids.Get(addr.Bytes())
	if err != nil {
		if s.ids.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "get validator id")
	}
	return binary.BigEndian.Uint64(data), true, nil
}

func (s *Store) addressOf(id uint64) (thor.Address, error) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	data, err := s.addrs.Get(b[:])
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "get address of validator id %d", id)
	}
	return thor.BytesToAddress(data), nil
}

// Reader returns the stake manager at root.
func (s *Store) Reader(root thor.Bytes32) (*Reader, error) {
	data, err := s.encodedView(root)
	if err != nil {
		return nil, err
	}
	enc, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "decompress view")
	}
	var v view
	if err := rlp.DecodeBytes(enc, &v); err != nil {
		return nil, errors.Wrap(err, "decode view")
	}
	return &Reader{store: s, view: &v}, nil
}

func (s *Store) encodedView(root thor.Bytes32) ([]byte, error) {
	var data []byte
	if s.cache.AdvGet(root.Bytes(), func(val []byte) {
		data = slices.Clone(val)
	}, false) && len(data) > 0 {
		return data, nil
	}

	data, err := s.views.Get(root.Bytes())
	if err != nil {
		if s.views.IsNotFound(err) {
			return nil, errors.Wrapf(ErrUnknownRoot, "root %v", root)
		}
		return nil, errors.Wrap(err, "get view")
	}
	_ = s.cache.Set(root.Bytes(), data)
	return data, nil
}

// StakeManagerAt implements pos.Backend.
func (s *Store) StakeManagerAt(ctx context.Context, root thor.Bytes32) (pos.StakeManager, uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r, err := s.Reader(root)
	if err != nil {
		return nil, 0, err
	}
	return r, r.view.BlockNumber, nil
}
