package store

import (
	"testing"

	"hlcli/internal/paths"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv(paths.EnvDir, t.TempDir())
	s, err := Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const addr1 = "0x1234567890abcdef1234567890abcdef12345678"
const addr2 = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"

func TestFirstAccountBecomesDefault(t *testing.T) {
	s := openTestStore(t)

	acc, err := s.CreateAccount(CreateAccountInput{Alias: "main", UserAddress: addr1, Type: TypeReadonly})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !acc.IsDefault {
		t.Fatalf("first account should be default")
	}
	if acc.Source != "cli_import" {
		t.Fatalf("source default: %q", acc.Source)
	}

	second, err := s.CreateAccount(CreateAccountInput{Alias: "alt", UserAddress: addr2, Type: TypeReadonly})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.IsDefault {
		t.Fatalf("second account should not be default")
	}
}

func TestSetAsDefaultDemotesPrevious(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.CreateAccount(CreateAccountInput{Alias: "main", UserAddress: addr1, Type: TypeReadonly}); err != nil {
		t.Fatalf("create: %v", err)
	}
	alt, err := s.CreateAccount(CreateAccountInput{Alias: "alt", UserAddress: addr2, Type: TypeAPIWallet, SetAsDefault: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !alt.IsDefault {
		t.Fatalf("alt should be default")
	}

	def, err := s.GetDefaultAccount()
	if err != nil || def == nil || def.Alias != "alt" {
		t.Fatalf("default mismatch: %+v %v", def, err)
	}

	main, err := s.GetAccountByAlias("main")
	if err != nil || main == nil || main.IsDefault {
		t.Fatalf("main should be demoted: %+v %v", main, err)
	}
}

func TestSetDefaultAccount(t *testing.T) {
	s := openTestStore(t)

	s.CreateAccount(CreateAccountInput{Alias: "a", UserAddress: addr1, Type: TypeReadonly})
	s.CreateAccount(CreateAccountInput{Alias: "b", UserAddress: addr2, Type: TypeReadonly})

	acc, err := s.SetDefaultAccount("b")
	if err != nil || !acc.IsDefault {
		t.Fatalf("set default: %+v %v", acc, err)
	}

	if _, err := s.SetDefaultAccount("missing"); err == nil {
		t.Fatalf("expected error for unknown alias")
	}
}

func TestDeleteAccountReassignsDefault(t *testing.T) {
	s := openTestStore(t)

	s.CreateAccount(CreateAccountInput{Alias: "a", UserAddress: addr1, Type: TypeReadonly})
	s.CreateAccount(CreateAccountInput{Alias: "b", UserAddress: addr2, Type: TypeReadonly})

	deleted, err := s.DeleteAccount("a")
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}

	def, err := s.GetDefaultAccount()
	if err != nil || def == nil || def.Alias != "b" {
		t.Fatalf("default not reassigned: %+v %v", def, err)
	}

	deleted, err = s.DeleteAccount("nope")
	if err != nil || deleted {
		t.Fatalf("deleting a missing account should report false: %v %v", deleted, err)
	}
}

func TestAliasTakenAndCount(t *testing.T) {
	s := openTestStore(t)

	taken, err := s.IsAliasTaken("main")
	if err != nil || taken {
		t.Fatalf("alias should be free: %v %v", taken, err)
	}

	s.CreateAccount(CreateAccountInput{Alias: "main", UserAddress: addr1, Type: TypeReadonly})

	taken, err = s.IsAliasTaken("main")
	if err != nil || !taken {
		t.Fatalf("alias should be taken: %v %v", taken, err)
	}

	count, err := s.AccountCount()
	if err != nil || count != 1 {
		t.Fatalf("count mismatch: %d %v", count, err)
	}
}

func TestListAccountsDefaultFirst(t *testing.T) {
	s := openTestStore(t)

	s.CreateAccount(CreateAccountInput{Alias: "a", UserAddress: addr1, Type: TypeReadonly})
	s.CreateAccount(CreateAccountInput{Alias: "b", UserAddress: addr2, Type: TypeReadonly, SetAsDefault: true})

	accounts, err := s.GetAllAccounts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 2 || accounts[0].Alias != "b" {
		t.Fatalf("ordering mismatch: %+v", accounts)
	}
}
