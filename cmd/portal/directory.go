package main

import (
	"fmt"

	"portal-chat/contract"
	"portal-chat/domain"
)

// staticDirectory is a fixture standing in for the organizational
// roster collaborator while running the demo.
type staticDirectory struct {
	groups map[string]contract.GroupRecord
	users  map[domain.UserID]contract.UserRecord
}

func demoDirectory() *staticDirectory {
	return &staticDirectory{
		groups: map[string]contract.GroupRecord{
			"group-7": {
				SupervisorID: "u-dana",
				InternIDs:    []domain.UserID{"u-alice", "u-bob"},
			},
		},
		users: map[domain.UserID]contract.UserRecord{
			"u-dana":  {Nickname: "Dana", FullName: "Dana Whitfield"},
			"u-alice": {Nickname: "Al", FullName: "Alice Carter"},
			"u-bob":   {FullName: "Bob Jensen"},
		},
	}
}

func (d *staticDirectory) Group(id string) (contract.GroupRecord, error) {
	record, ok := d.groups[id]
	if !ok {
		return contract.GroupRecord{}, fmt.Errorf("group %s not found", id)
	}
	return record, nil
}

func (d *staticDirectory) User(id domain.UserID) (contract.UserRecord, error) {
	record, ok := d.users[id]
	if !ok {
		return contract.UserRecord{}, fmt.Errorf("user %s not found", id)
	}
	return record, nil
}
