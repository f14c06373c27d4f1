package providers

import (
	"errors"
	"fmt"

	"github.com/gookit/validate"

	"dmrmonitor/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.Error())
	}
	if c.conf.Link.MaxBackoff < c.conf.Link.MinBackoff {
		return errors.New("invalid configuration: link.maxBackoff is lower than link.minBackoff")
	}
	if c.conf.Website.Auth.Enabled && (c.conf.Website.Auth.User == "" || c.conf.Website.Auth.Password == "") {
		return errors.New("invalid configuration: website.auth requires user and password")
	}
	return nil
}
