package cluster

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
)

// SendTrainRequest abre una conexión corta al trainer, manda la solicitud
// y espera el ack. El trainer encola y responde de inmediato: el
// entrenamiento en sí corre en background.
func SendTrainRequest(ctx context.Context, addr string, req *TrainRequest) (*TrainAck, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bufio.NewReader(conn))
	var ack TrainAck
	if err := dec.Decode(&ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
