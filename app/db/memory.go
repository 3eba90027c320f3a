package db

import "sync"

// InMemoryStorage keeps data in process memory, used in tests
type InMemoryStorage struct {
	users             map[UserID]User
	UsersDictionaries map[UserID]map[string]UserDictionaryItem
	mx                sync.RWMutex
}

func (d *InMemoryStorage) GetUser(id UserID) (User, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (d *InMemoryStorage) SaveUser(user User) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.users[user.ID] = user
	return nil
}

func (d *InMemoryStorage) GetUserItem(user UserID, id string) (UserDictionaryItem, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	item, ok := d.UsersDictionaries[user][id]
	if !ok {
		return UserDictionaryItem{}, ErrNotFound
	}
	return item, nil
}

func (d *InMemoryStorage) SaveUserItem(item UserDictionaryItem) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	userDict, ok := d.UsersDictionaries[item.User]
	if !ok {
		userDict = make(map[string]UserDictionaryItem)
		d.UsersDictionaries[item.User] = userDict
	}
	userDict[item.ID] = item
	return nil
}

func (d *InMemoryStorage) DeleteUserItem(user UserID, id string) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if _, ok := d.UsersDictionaries[user][id]; !ok {
		return ErrNotFound
	}
	delete(d.UsersDictionaries[user], id)
	return nil
}

func (d *InMemoryStorage) GetUserDictionary(user UserID) ([]UserDictionaryItem, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	result := make([]UserDictionaryItem, 0, len(d.UsersDictionaries[user]))
	for _, item := range d.UsersDictionaries[user] {
		result = append(result, item)
	}
	sortItems(result)
	return result, nil
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users:             make(map[UserID]User),
		UsersDictionaries: make(map[UserID]map[string]UserDictionaryItem),
	}
}
