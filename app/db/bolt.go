package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketUsers             = "Users"
	bucketUsersDictionaries = "UsersDictionaries"
)

// BoltStorage implements storage interface for BoltDB.
// Every user dictionary is a nested bucket keyed by user ID.
type BoltStorage struct {
	db *bolt.DB
}

func userBucketKey(id UserID) []byte {
	return []byte(strconv.FormatInt(int64(id), 10))
}

// GetUser from database
func (b *BoltStorage) GetUser(id UserID) (User, error) {
	var user User
	err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketUsers)).Get(userBucketKey(id))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &user); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		return nil
	})
	return user, err
}

// SaveUser to database
func (b *BoltStorage) SaveUser(user User) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := tx.Bucket([]byte(bucketUsers)).Put(userBucketKey(user.ID), jdata); err != nil {
			return fmt.Errorf("put user: %w", err)
		}
		return nil
	})
}

// GetUserItem from user dictionary bucket
func (b *BoltStorage) GetUserItem(user UserID, id string) (UserDictionaryItem, error) {
	var item UserDictionaryItem
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketUsersDictionaries)).Bucket(userBucketKey(user))
		if userBucket == nil {
			return ErrNotFound
		}
		jdata := userBucket.Get([]byte(id))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &item); err != nil {
			return fmt.Errorf("unmarshal user item: %w", err)
		}
		return nil
	})
	return item, err
}

// SaveUserItem to user dictionary bucket
func (b *BoltStorage) SaveUserItem(item UserDictionaryItem) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketUsersDictionaries))
		userBucket, err := bucket.CreateBucketIfNotExists(userBucketKey(item.User))
		if err != nil {
			return fmt.Errorf("create user bucket: %w", err)
		}
		jdata, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal user item: %w", err)
		}
		if err := userBucket.Put([]byte(item.ID), jdata); err != nil {
			return fmt.Errorf("put user item: %w", err)
		}
		return nil
	})
}

// DeleteUserItem from user dictionary bucket
func (b *BoltStorage) DeleteUserItem(user UserID, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketUsersDictionaries)).Bucket(userBucketKey(user))
		if userBucket == nil || userBucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return userBucket.Delete([]byte(id))
	})
}

// GetUserDictionary returns all items from user dictionary bucket
func (b *BoltStorage) GetUserDictionary(user UserID) ([]UserDictionaryItem, error) {
	items := []UserDictionaryItem{}
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketUsersDictionaries)).Bucket(userBucketKey(user))
		if userBucket == nil {
			return nil
		}
		return userBucket.ForEach(func(k, v []byte) error {
			var item UserDictionaryItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshal user item %s: %w", k, err)
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortItems(items)
	return items, nil
}

// NewBoltStorage creates BoltStorage instance and initialize buckets
func NewBoltStorage(db *bolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketUsers, bucketUsersDictionaries} {
			_, err := tx.CreateBucketIfNotExists([]byte(bucket))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}
