package accesstoken

// VideoGrant describes what the token holder may do on the media server.
// Field names follow the wire format the server verifies, so permissions the
// issuer never grants must stay omitted rather than encoded as false.
type VideoGrant struct {
	RoomCreate bool   `json:"roomCreate,omitempty"`
	RoomList   bool   `json:"roomList,omitempty"`
	RoomJoin   bool   `json:"roomJoin,omitempty"`
	RoomAdmin  bool   `json:"roomAdmin,omitempty"`
	Room       string `json:"room,omitempty"`
}

// RoomConfiguration is applied by the media server when the token holder's
// room is created.
type RoomConfiguration struct {
	Agents []*RoomAgentDispatch `json:"agents,omitempty"`
}

// RoomAgentDispatch asks the media server to dispatch a named agent into the
// room. Metadata is passed through to the agent verbatim.
type RoomAgentDispatch struct {
	AgentName string `json:"agentName,omitempty"`
	Metadata  string `json:"metadata,omitempty"`
}
