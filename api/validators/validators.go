// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/dpos/api/utils"
	"github.com/vechain/dpos/pos"
	"github.com/vechain/dpos/staking"
	"github.com/vechain/dpos/thor"
)

type Validators struct {
	sets  *pos.ValidatorSets
	roots utils.Roots
}

func New(sets *pos.ValidatorSets, roots utils.Roots) *Validators {
	return &Validators{
		sets,
		roots,
	}
}

func (v *Validators) validatorSet(req *http.Request) (thor.Bytes32, *pos.ValidatorSet, error) {
	rev, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return thor.Bytes32{}, nil, utils.BadRequest(err)
	}
	root, err := rev.Root(v.roots)
	if err != nil {
		return thor.Bytes32{}, nil, utils.NotFound(err)
	}
	vs, err := v.sets.Get(req.Context(), root)
	if err != nil {
		if errors.Is(err, staking.ErrUnknownRoot) || errors.Is(err, pos.ErrUnknownValidatorSet) {
			return thor.Bytes32{}, nil, utils.NotFound(err)
		}
		return thor.Bytes32{}, nil, err
	}
	return root, vs, nil
}

func (v *Validators) handleGetValidators(w http.ResponseWriter, req *http.Request) error {
	root, vs, err := v.validatorSet(req)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertValidatorSet(root, vs))
}

func (v *Validators) handleGetProposer(w http.ResponseWriter, req *http.Request) error {
	root, vs, err := v.validatorSet(req)
	if err != nil {
		return err
	}
	proposer := vs.Proposer()
	vp, err := vs.GetVotingPower(proposer)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Proposer{
		Root:        root,
		Address:     proposer,
		VotingPower: (*math.HexOrDecimal256)(vp),
	})
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("validators_get_set").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetValidators))
	sub.Path("/{revision}/proposer").
		Methods(http.MethodGet).
		Name("validators_get_proposer").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetProposer))
}
