package dataset

import (
	"errors"
	"fmt"
	"io"

	"FintechAgent/pkg/knowledge"
	"FintechAgent/pkg/nlp"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseIntents reads {"intent": ["phrase", ...], ...} keeping key order.
func ParseIntents(data []byte) (nlp.IntentTable, error) {
	var table nlp.IntentTable
	err := readOrderedObject(data, func(it *jsoniter.Iterator, name string) error {
		if it.WhatIsNext() != jsoniter.ArrayValue {
			return fmt.Errorf("intent %q: phrases must be an array", name)
		}
		phrases := make([]string, 0)
		var phraseErr error
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			if it.WhatIsNext() != jsoniter.StringValue {
				phraseErr = fmt.Errorf("intent %q: phrases must be strings", name)
				return false
			}
			phrases = append(phrases, it.ReadString())
			return true
		})
		if phraseErr != nil {
			return phraseErr
		}
		table = append(table, nlp.Intent{Name: name, Phrases: phrases})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ParseResponses reads {"intent": "reply", ...}.
func ParseResponses(data []byte) (map[string]string, error) {
	responses := make(map[string]string)
	err := readOrderedObject(data, func(it *jsoniter.Iterator, name string) error {
		if it.WhatIsNext() != jsoniter.StringValue {
			return fmt.Errorf("response %q: reply must be a string", name)
		}
		responses[name] = it.ReadString()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ParseKnowledgeBase reads {"question": "answer", ...} keeping key order.
func ParseKnowledgeBase(data []byte) ([]knowledge.Entry, error) {
	var entries []knowledge.Entry
	err := readOrderedObject(data, func(it *jsoniter.Iterator, question string) error {
		if it.WhatIsNext() != jsoniter.StringValue {
			return fmt.Errorf("question %q: answer must be a string", question)
		}
		entries = append(entries, knowledge.Entry{Question: question, Answer: it.ReadString()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// readOrderedObject walks a top-level JSON object in document order and
// rejects duplicate keys.
func readOrderedObject(data []byte, field func(it *jsoniter.Iterator, key string) error) error {
	if !json.Valid(data) {
		return ErrMalformedJSON
	}

	it := jsoniter.ParseBytes(json, data)
	if it.WhatIsNext() != jsoniter.ObjectValue {
		return fmt.Errorf("%w: top-level value must be an object", ErrMalformedJSON)
	}

	seen := make(map[string]struct{})
	var fieldErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if _, dup := seen[key]; dup {
			fieldErr = fmt.Errorf("duplicate key %q", key)
			return false
		}
		seen[key] = struct{}{}
		if err := field(it, key); err != nil {
			fieldErr = err
			return false
		}
		return true
	})

	if fieldErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, fieldErr)
	}
	if it.Error != nil && !errors.Is(it.Error, io.EOF) {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, it.Error)
	}
	return nil
}
