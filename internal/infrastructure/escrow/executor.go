package escrow

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

type executor struct{}

// NewExecutor returns a local EscrowExecutor that derives a fresh contract
// address per agreed trade. Submitting the deployment transaction on chain
// is an external collaborator's job, the state machine only records the
// resulting address.
func NewExecutor() ports.EscrowExecutor {
	return &executor{}
}

func (e *executor) Deploy(
	_ context.Context, trade *domain.Trade,
) (string, error) {
	address := "0x" + randstr.Hex(20)
	log.Debugf("escrow contract %s assigned to trade %s", address, trade.Id)
	return address, nil
}
