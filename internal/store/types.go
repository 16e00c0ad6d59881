package store

import "slices"

// Record is one sender's persisted history.
type Record struct {
	SenderName    string   `json:"senderName"`
	GeneratedKeys []string `json:"generatedKeys"`
}

// Document is the shared save document holding every sender.
type Document struct {
	Senders []Record `json:"allSenders"`
}

func (d *Document) Find(sender string) (*Record, bool) {
	for i := range d.Senders {
		if d.Senders[i].SenderName == sender {
			return &d.Senders[i], true
		}
	}
	return nil, false
}

// Put replaces the sender's keys, appending a new record if none exists.
func (d *Document) Put(sender string, keys []string) {
	keys = append([]string{}, keys...)
	if rec, ok := d.Find(sender); ok {
		rec.GeneratedKeys = keys
		return
	}
	d.Senders = append(d.Senders, Record{SenderName: sender, GeneratedKeys: keys})
}

// Remove drops the sender's record and reports whether one existed.
func (d *Document) Remove(sender string) bool {
	before := len(d.Senders)
	d.Senders = slices.DeleteFunc(d.Senders, func(r Record) bool {
		return r.SenderName == sender
	})
	return len(d.Senders) != before
}

func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Senders))
	for _, r := range d.Senders {
		names = append(names, r.SenderName)
	}
	return names
}
