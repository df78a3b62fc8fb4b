// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/danielhkuo/ballot-station/ballot"
)

var ErrInvalidTarget = errors.New("invalid audit log target")

// Open returns the sink described by target:
//
//	kafka://broker1:9092,broker2:9092/topic
//	/var/lib/station/voting_information.txt
func Open(target string) (ballot.AuditSink, error) {
	if !strings.HasPrefix(target, "kafka://") {
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("%w: empty path", ErrInvalidTarget)
		}
		return OpenFile(target)
	}

	brokers, topic, err := parseKafkaTarget(target)
	if err != nil {
		return nil, err
	}
	return NewKafkaLog(brokers, topic), nil
}

func parseKafkaTarget(target string) ([]string, string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	topic := strings.Trim(u.Path, "/")
	if topic == "" {
		return nil, "", fmt.Errorf("%w: kafka topic required", ErrInvalidTarget)
	}

	var brokers []string
	for _, b := range strings.Split(u.Host, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, "", fmt.Errorf("%w: kafka broker required", ErrInvalidTarget)
	}

	return brokers, topic, nil
}
