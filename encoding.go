package votecount

import (
	"encoding/binary"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// encodeUint64ToBytes returns a big endian key so that bolt cursors
// iterate in numeric order
func encodeUint64ToBytes(value uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)
	return buf
}

// decodeUint64ToBytes is the reverse of encodeUint64ToBytes
func decodeUint64ToBytes(value []byte) uint64 {
	return binary.BigEndian.Uint64(value)
}

// marshalStruct encodes fields as a deterministic protobuf Struct
func marshalStruct(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

// unmarshalStruct decodes a protobuf Struct
func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// encodeTabulationRecord permits to encode tabulation metadata
func encodeTabulationRecord(record TabulationRecord) ([]byte, error) {
	return marshalStruct(map[string]any{
		"tabulationId": record.TabulationID,
		"method":       record.Method,
		"seats":        record.Seats,
		"ballots":      record.Ballots,
	})
}

// decodeTabulationRecord is the reverse of encodeTabulationRecord
func decodeTabulationRecord(data []byte) (TabulationRecord, error) {
	s, err := unmarshalStruct(data)
	if err != nil {
		return TabulationRecord{}, err
	}
	fields := s.GetFields()
	return TabulationRecord{
		TabulationID: fields["tabulationId"].GetStringValue(),
		Method:       fields["method"].GetStringValue(),
		Seats:        int(fields["seats"].GetNumberValue()),
		Ballots:      int(fields["ballots"].GetNumberValue()),
	}, nil
}

// encodeRoundRecord permits to encode a round record.
// Decimals are stored as strings to keep their exact value
func encodeRoundRecord(record RoundRecord) ([]byte, error) {
	states := make(map[string]any, len(record.CandidateStates))
	for c, state := range record.CandidateStates {
		states[c.Name] = map[string]any{
			"status":     state.Status.String(),
			"voteCount":  state.VoteCount.String(),
			"keepFactor": state.KeepFactor.String(),
		}
	}
	return marshalStruct(map[string]any{
		"tabulationId":    record.TabulationID,
		"round":           record.Round,
		"note":            record.Note,
		"candidateStates": states,
	})
}

// decodeRoundRecord is the reverse of encodeRoundRecord
func decodeRoundRecord(data []byte) (RoundRecord, error) {
	s, err := unmarshalStruct(data)
	if err != nil {
		return RoundRecord{}, err
	}
	fields := s.GetFields()
	record := RoundRecord{
		TabulationID:    fields["tabulationId"].GetStringValue(),
		Round:           uint64(fields["round"].GetNumberValue()),
		Note:            fields["note"].GetStringValue(),
		CandidateStates: make(CandidateStates),
	}
	for name, value := range fields["candidateStates"].GetStructValue().GetFields() {
		state := value.GetStructValue().GetFields()
		status, err := ParseCandidateStatus(state["status"].GetStringValue())
		if err != nil {
			return RoundRecord{}, err
		}
		voteCount, err := decimal.NewFromString(state["voteCount"].GetStringValue())
		if err != nil {
			return RoundRecord{}, fmt.Errorf("candidate %s vote count: %w", name, err)
		}
		keepFactor, err := decimal.NewFromString(state["keepFactor"].GetStringValue())
		if err != nil {
			return RoundRecord{}, fmt.Errorf("candidate %s keep factor: %w", name, err)
		}
		record.CandidateStates[NewCandidate(name)] = CandidateState{
			Status:     status,
			VoteCount:  voteCount,
			KeepFactor: keepFactor,
		}
	}
	return record, nil
}
