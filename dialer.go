package wirehttp

import (
	"github.com/wirehttp/go-wirehttp/internal"
	"github.com/wirehttp/go-wirehttp/internal/dialer"
	"github.com/wirehttp/go-wirehttp/internal/model"
)

type Dialer = internal.Dialer
type CoreDialer = dialer.CoreDialer

type ProxyConfig = model.ProxyConfig

type ConnectionError = model.ConnectionError
type ProxyTunnelError = model.ProxyTunnelError
type ProtocolError = model.ProtocolError
