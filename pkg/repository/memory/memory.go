package memory

import (
	"github.com/commguard/cerberus/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for the in-memory repository
var (
	ErrAlreadyExists = goerr.New("already exists")
)

// Client is the in-memory repository. Everything lives in process
// memory and is lost on restart; callers re-prime at startup.
type Client struct {
	invite *inviteRepository
	ticket *ticketRepository
	ledger *ledgerRepository
}

var _ interfaces.Repository = &Client{}

// New creates a new in-memory repository
func New() *Client {
	return &Client{
		invite: newInviteRepository(),
		ticket: newTicketRepository(),
		ledger: newLedgerRepository(),
	}
}

func (c *Client) Invite() interfaces.InviteRepository { return c.invite }
func (c *Client) Ticket() interfaces.TicketRepository { return c.ticket }
func (c *Client) Ledger() interfaces.LedgerRepository { return c.ledger }

// Close is a no-op for the in-memory repository
func (c *Client) Close() error { return nil }
