// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package fixtures

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// MetadataXML is a small LaunchBox Metadata.xml dump holding 3 games, 3
// alternate names and 7 images, plus elements the importer ignores.
const MetadataXML = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<LaunchBox>
  <Platform>
    <Name>Sega Genesis</Name>
    <Emulated>true</Emulated>
  </Platform>
  <Game>
    <Name>Sonic the Hedgehog</Name>
    <ReleaseYear>1991</ReleaseYear>
    <ReleaseDate>1991-06-23T00:00:00-07:00</ReleaseDate>
    <Overview>Sonic races to stop Dr. Robotnik.</Overview>
    <MaxPlayers>1</MaxPlayers>
    <ReleaseType>Released</ReleaseType>
    <Cooperative>false</Cooperative>
    <VideoURL>https://www.youtube.com/watch?v=sonic</VideoURL>
    <DatabaseID>1</DatabaseID>
    <CommunityRating>3.9</CommunityRating>
    <Platform>Sega Genesis</Platform>
    <ESRB>E - Everyone</ESRB>
    <CommunityRatingCount>1200</CommunityRatingCount>
    <Genres>Platform; Action</Genres>
    <Developer>Sonic Team</Developer>
    <Publisher>Sega</Publisher>
    <WikipediaURL>https://en.wikipedia.org/wiki/Sonic_the_Hedgehog_(1991_video_game)</WikipediaURL>
  </Game>
  <Game>
    <Name>Mega Game</Name>
    <ReleaseYear>1994</ReleaseYear>
    <ReleaseDate></ReleaseDate>
    <DatabaseID>2</DatabaseID>
    <CommunityRating>2.5</CommunityRating>
    <CommunityRatingCount>4</CommunityRatingCount>
    <Platform>Sega Genesis</Platform>
    <Genres>Puzzle</Genres>
    <Developer>B Studio; A Studio</Developer>
    <Publisher>Mega Co</Publisher>
  </Game>
  <Game>
    <Name>Quiet Game</Name>
    <DatabaseID>3</DatabaseID>
    <Platform>Super Nintendo Entertainment System</Platform>
  </Game>
  <GameAlternateName>
    <AlternateName>Super Game</AlternateName>
    <DatabaseID>2</DatabaseID>
    <Region>Europe</Region>
  </GameAlternateName>
  <GameAlternateName>
    <AlternateName>Mega Game</AlternateName>
    <DatabaseID>2</DatabaseID>
    <Region>North America</Region>
  </GameAlternateName>
  <GameAlternateName>
    <AlternateName>Sonic the Hedgehog 16-bit</AlternateName>
    <DatabaseID>1</DatabaseID>
  </GameAlternateName>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <FileName>sonic-us.png</FileName>
    <Type>Box - Front</Type>
    <Region>North America</Region>
    <CRC32>3426193254</CRC32>
  </GameImage>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <FileName>sonic-eu.png</FileName>
    <Type>Box - Front</Type>
    <Region>Europe</Region>
  </GameImage>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <FileName>sonic.png</FileName>
    <Type>Box - Front</Type>
  </GameImage>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <FileName>sonic-bg.jpg</FileName>
    <Type>Fanart - Background</Type>
  </GameImage>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <FileName>sonic-logo.png</FileName>
    <Type>Clear Logo</Type>
    <Region>North America</Region>
  </GameImage>
  <GameImage>
    <DatabaseID>2</DatabaseID>
    <FileName>mega-eu.png</FileName>
    <Type>Box - Front</Type>
    <Region>Europe</Region>
  </GameImage>
  <GameImage>
    <DatabaseID>2</DatabaseID>
    <FileName>mega-shot.png</FileName>
    <Type>Screenshot - Gameplay</Type>
  </GameImage>
  <Emulator>
    <Name>RetroArch</Name>
  </Emulator>
</LaunchBox>
`

// Row counts of MetadataXML.
const (
	MetadataGames          = 3
	MetadataAlternateNames = 3
	MetadataImages         = 7
)

// MetadataArchive zips one entry named entryName holding content.
func MetadataArchive(entryName, content string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(entryName)
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return nil, fmt.Errorf("failed to write zip entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip: %w", err)
	}
	return buf.Bytes(), nil
}
