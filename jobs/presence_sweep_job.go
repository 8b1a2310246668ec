package jobs

import (
	"log"

	ws "github.com/omondivictor/chirpnet/websocket"
)

// SweepStaleConnections pings every registered realtime connection and
// evicts the ones that stopped answering, so pushes do not keep
// targeting dead handles between a crash and the client's reconnect.
func SweepStaleConnections(gateway *ws.Gateway) func() {
	return func() {
		log.Println("Running job: SweepStaleConnections...")
		gateway.SweepStale()
	}
}
