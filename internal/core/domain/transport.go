package domain

// ConnectivityStatus is a transport level connection state change.
type ConnectivityStatus string

const (
	// StatusConnected is reported once the first subscription is established.
	StatusConnected ConnectivityStatus = "connected"
	// StatusNetworkDown is reported when the connection is lost.
	StatusNetworkDown ConnectivityStatus = "network_down"
	// StatusNetworkIssues is reported when the connection is degraded.
	StatusNetworkIssues ConnectivityStatus = "network_issues"
	// StatusReconnected is reported after a successful reconnect.
	StatusReconnected ConnectivityStatus = "reconnected"
	// StatusNetworkUp is reported when the network is reachable again and subscriptions must be renewed.
	StatusNetworkUp ConnectivityStatus = "network_up"
)

// PresenceAction is the raw presence action reported by the transport.
type PresenceAction string

const (
	// PresenceActionJoin is sent when a peer subscribes.
	PresenceActionJoin PresenceAction = "join"
	// PresenceActionLeave is sent when a peer unsubscribes.
	PresenceActionLeave PresenceAction = "leave"
	// PresenceActionTimeout is sent when a peer disappears without unsubscribing.
	PresenceActionTimeout PresenceAction = "timeout"
)
